// ABOUTME: Read-only document endpoints: YAML board export and JSON schemas of request payloads.
// ABOUTME: Both are served under the read lock so a snapshot never straddles a mutation.
package web

import (
	"encoding/json"
	"net/http"
	"reflect"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/invopop/jsonschema"

	"github.com/2389-research/kanban/board"
	"github.com/2389-research/kanban/board/export"
)

var payloadTypes = map[string]reflect.Type{
	"card":          reflect.TypeOf(board.CardPayload{}),
	"rule":          reflect.TypeOf(board.RulePayload{}),
	"stage":         reflect.TypeOf(board.StagePayload{}),
	"configuration": reflect.TypeOf(board.Configuration{}),
}

// SchemaNames lists the payloads served under /api/schema/{name}.
func SchemaNames() []string {
	names := make([]string, 0, len(payloadTypes))
	for name := range payloadTypes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PayloadSchema reflects the JSON schema of a named request payload.
func PayloadSchema(name string) (*jsonschema.Schema, bool) {
	t, ok := payloadTypes[name]
	if !ok {
		return nil, false
	}
	reflector := jsonschema.Reflector{
		ExpandedStruct:            true,
		DoNotReference:            true,
		AllowAdditionalProperties: false,
	}
	return reflector.Reflect(reflect.New(t).Interface()), true
}

func (s *Server) handleSchema(w http.ResponseWriter, r *http.Request) {
	schema, ok := PayloadSchema(chi.URLParam(r, "name"))
	if !ok {
		writeFailure(w, http.StatusNotFound, KindNotFound, "unknown schema; known schemas: "+strings.Join(SchemaNames(), ", "))
		return
	}
	b, err := json.Marshal(schema)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/schema+json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	snap, err := s.board.Snapshot(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	doc, err := export.ExportYAML(snap)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(doc))
}
