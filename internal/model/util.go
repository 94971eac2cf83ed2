package model

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"math/big"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// maxUserSlugLen caps the slug portion of a generated admin username
const maxUserSlugLen = 20

// NewNegocioID creates an opaque random negocio identifier. Collisions are
// not checked; 12 random bytes make them negligible.
func NewNegocioID() string {
	b := make([]byte, 12)
	_, err := rand.Read(b)
	if err != nil {
		panic(err)
	}
	return fmt.Sprintf("neg_%s", base64.RawURLEncoding.EncodeToString(b))
}

// NewPin creates a uniform random 4-digit PIN in [1000, 9999]
func NewPin() string {
	n, err := rand.Int(rand.Reader, big.NewInt(9000))
	if err != nil {
		panic(err)
	}
	return fmt.Sprintf("%04d", n.Int64()+1000)
}

// NewAdminUser derives an admin username from the negocio display name and
// its creation year: lowercased, diacritics stripped, non-alphanumerics
// removed, length-capped. Usernames are NOT unique across negocios; two
// negocios created the same year with the same name collide.
func NewAdminUser(nombre string, createdAt time.Time) string {
	slug := Slugify(nombre)
	if len(slug) > maxUserSlugLen {
		slug = slug[:maxUserSlugLen]
	}
	if slug == "" {
		slug = "admin"
	}
	return fmt.Sprintf("%s%d", slug, createdAt.Year())
}

// Slugify lowercases a name, strips diacritics and drops every
// non-alphanumeric rune
func Slugify(s string) string {
	// Decompose, drop combining marks, recompose
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, s)
	if err != nil {
		stripped = s
	}

	var b strings.Builder
	for _, r := range strings.ToLower(stripped) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
