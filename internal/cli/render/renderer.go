package render

// Renderer writes a use case result to the terminal. Each command owns one.
type Renderer[T any] interface {
	Render(result T) error
}
