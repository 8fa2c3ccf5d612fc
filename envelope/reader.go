package envelope

import (
	"fmt"
	"time"

	"github.com/adred-codev/envelopes/codec"
	"github.com/adred-codev/envelopes/contenttype"
	"github.com/adred-codev/envelopes/errs"
	"github.com/adred-codev/envelopes/pool"
	"github.com/adred-codev/envelopes/subscriber"
	"github.com/tidwall/gjson"
)

// Read parses the inner envelope bytes in data, resolves its type against
// registry, and materializes a typed message. gjson.ParseBytes parses a
// string copy of data, so nothing in the returned envelope aliases data.
// When the data property is JSON-shaped, Read hands the codec a view
// into that copy without copying it again.
func Read(data []byte, scope *pool.Scope, registry subscriber.Registry) (*Envelope, error) {
	parsed := gjson.ParseBytes(data)
	if !parsed.IsObject() {
		return nil, fmt.Errorf("envelope: %w: envelope JSON must start with an object", errs.InvalidData)
	}

	env := &Envelope{Metadata: NewMetadata()}

	var (
		dataSeen   bool
		dataCTSeen bool
		dataIsJSON = true // blank/absent content type defaults to JSON-shaped
		rawData    []byte
		parseErr   error
	)

	parsed.ForEach(func(key, value gjson.Result) bool {
		k := key.String()
		switch k {
		case "id":
			env.ID = value.String()
		case "source":
			env.Source = value.String()
		case "specversion":
			env.SpecVersion = value.String()
		case "type":
			env.Type = value.String()
		case "time":
			t, err := time.Parse(time.RFC3339Nano, value.String())
			if err != nil {
				parseErr = fmt.Errorf("envelope: %w: unparseable time %q: %v", errs.InvalidData, value.String(), err)
				return false
			}
			env.Time = t
		case "datacontenttype":
			env.DataContentType = value.String()
			dataIsJSON = contenttype.IsJSON(env.DataContentType)
			dataCTSeen = true
		case "data":
			dataSeen = true
			if !dataCTSeen {
				dataIsJSON = contenttype.IsJSON("")
			}
			if dataIsJSON {
				rawData = pool.ViewBytes(value.Raw)
				return true
			}
			if value.Type != gjson.String {
				parseErr = fmt.Errorf("envelope: %w: data must be a JSON string when datacontenttype is not JSON-shaped", errs.InvalidData)
				return false
			}
			token := value.Raw
			if len(token) < 2 {
				parseErr = fmt.Errorf("envelope: %w: malformed data string token", errs.InvalidData)
				return false
			}
			unescaped, err := pool.UnescapeToken([]byte(token[1:len(token)-1]), scope)
			if err != nil {
				parseErr = fmt.Errorf("envelope: %w: %v", errs.InvalidData, err)
				return false
			}
			rawData = unescaped
		default:
			cp := make([]byte, len(value.Raw))
			copy(cp, value.Raw)
			env.Metadata.Set(k, cp)
		}
		return true
	})

	if parseErr != nil {
		return nil, parseErr
	}
	if env.Type == "" {
		return nil, fmt.Errorf("envelope: %w: type is required", errs.InvalidData)
	}
	if env.ID == "" {
		return nil, fmt.Errorf("envelope: %w: id is required", errs.InvalidData)
	}
	if env.Time.IsZero() {
		return nil, fmt.Errorf("envelope: %w: time is required", errs.InvalidData)
	}

	mapping, ok := registry.Get(env.Type)
	if !ok {
		return nil, fmt.Errorf("envelope: %w: no subscriber mapping for type %q, available: %s",
			errs.InvalidData, env.Type, subscriber.DescribeAvailable(registry.List()))
	}

	target := mapping.NewZero()
	if dataSeen {
		if err := decodeData(mapping.Codec, dataIsJSON, rawData, target); err != nil {
			return nil, fmt.Errorf("envelope: %w: %w", errs.InvalidData, err)
		}
	}
	env.Data = target

	return env, nil
}

func decodeData(c codec.Codec, dataIsJSON bool, raw []byte, target any) error {
	if dataIsJSON {
		if u, ok := codec.AsUTF8Capable(c); ok {
			return u.DeserializeUTF8(raw, target)
		}
	}
	return c.Deserialize(raw, target)
}
