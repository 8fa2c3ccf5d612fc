package serializer

import "github.com/adred-codev/envelopes/envelope"

// Callbacks holds the four ordered hook lists the orchestrator runs
// around serialize and convert-to-envelope. Hooks within a list run
// sequentially, in registration order, each fully completing before the
// next starts; a failing hook stops the list and propagates.
type Callbacks struct {
	PreSerialize    []func(*envelope.Envelope) error
	PostSerialize   []func(string) (string, error)
	PreDeserialize  []func(string) (string, error)
	PostDeserialize []func(*envelope.Envelope) error
}

func (c Callbacks) runPreSerialize(e *envelope.Envelope) error {
	for _, fn := range c.PreSerialize {
		if err := fn(e); err != nil {
			return err
		}
	}
	return nil
}

func (c Callbacks) runPostSerialize(s string) (string, error) {
	for _, fn := range c.PostSerialize {
		out, err := fn(s)
		if err != nil {
			return "", err
		}
		s = out
	}
	return s, nil
}

func (c Callbacks) runPreDeserialize(s string) (string, error) {
	for _, fn := range c.PreDeserialize {
		out, err := fn(s)
		if err != nil {
			return "", err
		}
		s = out
	}
	return s, nil
}

func (c Callbacks) runPostDeserialize(e *envelope.Envelope) error {
	for _, fn := range c.PostDeserialize {
		if err := fn(e); err != nil {
			return err
		}
	}
	return nil
}
