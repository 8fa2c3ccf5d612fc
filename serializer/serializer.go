// Package serializer wires the envelope, wrapper, codec, and subscriber
// packages behind three operations — create-envelope, serialize, and
// convert-to-envelope — running the registered callbacks around each and
// instrumenting every call with Prometheus metrics.
package serializer

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/adred-codev/envelopes/carrier"
	"github.com/adred-codev/envelopes/clock"
	"github.com/adred-codev/envelopes/envelope"
	"github.com/adred-codev/envelopes/errs"
	"github.com/adred-codev/envelopes/idgen"
	"github.com/adred-codev/envelopes/pool"
	"github.com/adred-codev/envelopes/subscriber"
	"github.com/adred-codev/envelopes/wrapper"
)

// Options configures the runtime behavior of a Serializer.
type Options struct {
	// CleanRentedBuffers zeroes pooled buffers on return. The zero value
	// leaves them uncleaned; internal/config defaults the flag to true.
	CleanRentedBuffers bool
	// LogMessageContent, when false, redacts JSON-parse failure detail
	// from error-path output to avoid leaking payload fragments.
	LogMessageContent bool
}

// Serializer is the envelope-serialization orchestrator.
type Serializer struct {
	registry  subscriber.Registry
	publisher subscriber.Publisher
	clock     clock.Clock
	ids       idgen.Generator
	source    *cachedSource
	callbacks Callbacks
	chain     *wrapper.Chain
	opts      Options
}

// New builds a Serializer. registry resolves inbound type-ids to
// mappings for the receive path; publisher resolves a message's Go type
// to its outbound type-id for the publish path. A *subscriber.Map
// satisfies both.
func New(registry subscriber.Registry, publisher subscriber.Publisher, c clock.Clock, ids idgen.Generator, source SourceProvider, callbacks Callbacks, opts Options) *Serializer {
	return &Serializer{
		registry:  registry,
		publisher: publisher,
		clock:     c,
		ids:       ids,
		source:    newCachedSource(source),
		callbacks: callbacks,
		chain:     wrapper.NewChain(),
		opts:      opts,
	}
}

// CreateEnvelope stamps a fresh envelope for message: a generated id, the
// current timestamp, and the type-id resolved from message's static Go
// type via the publisher mapping. Data is set to message; Metadata
// starts empty.
func (s *Serializer) CreateEnvelope(message any) (*envelope.Envelope, error) {
	typeID, ok := s.publisher.Resolve(message)
	if !ok {
		return nil, fmt.Errorf("serializer: %w: no publisher mapping for %T", errs.MissingMapping, message)
	}

	source, err := s.source.Compute()
	if err != nil {
		return nil, fmt.Errorf("serializer: %w: source provider failed for %T: %v", errs.MissingMapping, message, err)
	}

	return &envelope.Envelope{
		ID:          s.ids.Next(),
		Source:      source,
		SpecVersion: envelope.SpecVersion,
		Type:        typeID,
		Time:        s.clock.Now(),
		Data:        message,
		Metadata:    envelope.NewMetadata(),
	}, nil
}

// Serialize renders e to its wire form, running the registered
// pre/post-serialize callbacks around the write. The codec used is the
// one registered under e.Type.
func (s *Serializer) Serialize(e *envelope.Envelope) (out string, err error) {
	start := time.Now()
	defer func() { observe("serialize", start, err) }()

	mapping, ok := s.registry.Get(e.Type)
	if !ok {
		err = fmt.Errorf("serializer: %w: no mapping for type %q, available: %s",
			errs.MissingMapping, e.Type, subscriber.DescribeAvailable(s.registry.List()))
		return "", err
	}

	if cbErr := s.callbacks.runPreSerialize(e); cbErr != nil {
		err = fmt.Errorf("serializer: %w: pre-serialize callback: %w", errs.SerializeFailed, s.redact(cbErr))
		return "", err
	}

	raw, werr := envelope.Serialize(e, mapping.Codec)
	if werr != nil {
		err = fmt.Errorf("serializer: %w: %w", errs.SerializeFailed, s.redact(werr))
		return "", err
	}

	out, cbErr := s.callbacks.runPostSerialize(raw)
	if cbErr != nil {
		err = fmt.Errorf("serializer: %w: post-serialize callback: %w", errs.SerializeFailed, s.redact(cbErr))
		return "", err
	}
	return out, nil
}

// ConvertToEnvelope is the receive-path counterpart of Serialize: it
// opens a pooled scope, runs pre-deserialize callbacks on body, unwraps
// the outer carrier via the wrapper chain, parses the inner envelope,
// attaches carrier metadata, and runs post-deserialize callbacks.
func (s *Serializer) ConvertToEnvelope(body string, queue carrier.QueueMetadata) (result *envelope.Envelope, mapping subscriber.Mapping, err error) {
	start := time.Now()
	defer func() { observe("convert", start, err) }()

	pre, cbErr := s.callbacks.runPreDeserialize(body)
	if cbErr != nil {
		err = fmt.Errorf("serializer: %w: pre-deserialize callback: %w", errs.ConvertFailed, s.redact(cbErr))
		return nil, subscriber.Mapping{}, err
	}

	scope := pool.NewScope(s.opts.CleanRentedBuffers)
	defer scope.Close()

	encoded := scope.Rent(len(pre))
	copy(encoded, pre)

	wrapped := s.chain.Run(wrapper.CarrierMessage{Body: encoded, Queue: queue}, scope)

	env, rerr := envelope.Read(wrapped.Inner, scope, s.registry)
	if rerr != nil {
		err = fmt.Errorf("serializer: %w: %w", errs.ConvertFailed, s.redact(rerr))
		return nil, subscriber.Mapping{}, err
	}

	env.Queue = wrapped.Queue
	env.Notification = wrapped.Notification
	env.EventBus = wrapped.EventBus

	if cbErr := s.callbacks.runPostDeserialize(env); cbErr != nil {
		err = fmt.Errorf("serializer: %w: post-deserialize callback: %w", errs.ConvertFailed, s.redact(cbErr))
		return nil, subscriber.Mapping{}, err
	}

	resolved, _ := s.registry.Get(env.Type)
	return env, resolved, nil
}

// redact drops JSON-parse failure detail from err when LogMessageContent
// is false, to keep payload fragments out of error-path logs. Every
// other cause chain passes through unchanged.
func (s *Serializer) redact(err error) error {
	if err == nil || s.opts.LogMessageContent {
		return err
	}
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return errors.New("json parse error (message content redacted)")
	}
	return err
}
