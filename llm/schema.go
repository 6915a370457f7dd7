package llm

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
	"github.com/pkg/errors"
)

// SchemaFor reflects the JSON schema of v, inlined without $ref indirection,
// for embedding into a structured-output prompt.
func SchemaFor(v any) (string, error) {
	reflector := &jsonschema.Reflector{
		Anonymous:      true,
		DoNotReference: true,
	}

	schema := reflector.Reflect(v)
	schemaBytes, err := json.Marshal(schema)
	if err != nil {
		return "", errors.Wrapf(err, "failed to marshal json schema")
	}

	return string(schemaBytes), nil
}
