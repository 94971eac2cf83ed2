package textgen

import "fmt"

// Generator produces marketing copy for a negocio section. The real
// implementation is an external service; the service ships with a canned
// mock so the endpoint works without one.
type Generator interface {
	Generate(kind, prompt string) (string, error)
}

var generator Generator = &MockGenerator{}

// GetGenerator returns the configured text generator
func GetGenerator() Generator {
	return generator
}

// SetGenerator replaces the text generator, used to plug in a real backend
// or a test double
func SetGenerator(g Generator) {
	generator = g
}

// MockGenerator returns deterministic placeholder copy
type MockGenerator struct{}

// Generate implements Generator with canned text per section kind
func (m *MockGenerator) Generate(kind, prompt string) (string, error) {
	switch kind {
	case "slogan":
		return fmt.Sprintf("Calidad y confianza: %s", prompt), nil
	case "nosotros":
		return fmt.Sprintf("Somos un equipo dedicado a %s, comprometido con nuestros clientes.", prompt), nil
	case "mision":
		return fmt.Sprintf("Nuestra misión es ofrecer %s con la mejor atención.", prompt), nil
	case "vision":
		return fmt.Sprintf("Ser el referente en %s de nuestra región.", prompt), nil
	default:
		return fmt.Sprintf("Descubre %s: %s", kind, prompt), nil
	}
}
