// Package schema publishes JSON Schemas for the documents courier emits:
// stored sessions, planned routes, SSE/WebSocket diffs and NDJSON runner events.
package schema

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/aretw0/courier/pkg/domain"
	"github.com/aretw0/courier/pkg/runner"
	"github.com/invopop/jsonschema"
)

type document struct {
	typ         reflect.Type
	title       string
	description string
}

var documents = map[string]document{
	"session": {
		typ:         reflect.TypeOf(domain.Session{}),
		title:       "Courier Session",
		description: "Persisted record of a simulation, as kept by every session store.",
	},
	"route": {
		typ:         reflect.TypeOf(domain.Route{}),
		title:       "Courier Route",
		description: "Planned stops and steps for one input.",
	},
	"diff": {
		typ:         reflect.TypeOf(domain.SessionDiff{}),
		title:       "Courier Session Diff",
		description: "Incremental session update streamed over SSE and WebSocket.",
	},
	"event": {
		typ:         reflect.TypeOf(runner.Event{}),
		title:       "Courier Runner Event",
		description: "One NDJSON line written by `courier run --json`.",
	},
}

// Names lists the documents Generate accepts.
func Names() []string {
	names := make([]string, 0, len(documents))
	for name := range documents {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Generate reflects the schema of the named document.
func Generate(name string) (*jsonschema.Schema, error) {
	doc, ok := documents[name]
	if !ok {
		return nil, fmt.Errorf("unknown schema %q (want one of %v)", name, Names())
	}

	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		DoNotReference:             true,
	}
	s := reflector.ReflectFromType(doc.typ)
	if s == nil {
		return nil, fmt.Errorf("failed to reflect %s schema", name)
	}
	s.Title = doc.title
	s.Description = doc.description
	return s, nil
}
