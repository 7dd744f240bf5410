package typemap_test

import "github.com/nano-interactive/go-amqp-contracts/typemap"

type (
	Greeting interface {
		GetText() string
	}

	greetingMessage struct {
		Text     string `json:"text"`
		Language string `json:"language"`
	}

	Envelope[T any] interface {
		GetBody() T
	}

	envelopeMessage[T any] struct {
		Body T      `json:"body"`
		From string `json:"from"`
	}

	altEnvelope[T any] struct {
		Value T `json:"value"`
	}

	Pair[A, B any] interface {
		First() A
		Second() B
	}

	pairMessage[A, B any] struct {
		A A `json:"a"`
		B B `json:"b"`
	}

	Unmapped interface {
		Nothing()
	}

	Payload struct {
		ID int `json:"id"`
	}
)

func (g *greetingMessage) GetText() string { return g.Text }

func (e *envelopeMessage[T]) GetBody() T { return e.Body }

func (e *altEnvelope[T]) GetBody() T { return e.Value }

func (p *pairMessage[A, B]) First() A  { return p.A }
func (p *pairMessage[A, B]) Second() B { return p.B }

func testRegistry() *typemap.Registry {
	return typemap.MustNew(
		typemap.Map[Greeting, greetingMessage](),
		typemap.Open[Envelope[any], envelopeMessage[any]](),
		typemap.Bind[Envelope[Payload], envelopeMessage[Payload]](),
		typemap.Bind[Envelope[int], envelopeMessage[int]](),
	)
}
