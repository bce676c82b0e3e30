// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package migrate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/walteh/apirewrite/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// 🔤 Quote is a string literal delimiter
type Quote string

const (
	SingleQuote Quote = "'"
	DoubleQuote Quote = `"`
	BackQuote   Quote = "`"
)

// Name returns the rule-name suffix for the quote style
func (q Quote) Name() string {
	switch q {
	case SingleQuote:
		return "single"
	case DoubleQuote:
		return "double"
	case BackQuote:
		return "back"
	default:
		return "unknown"
	}
}

// pathChars matches a path literal body; no quote of any style may appear inside
const pathChars = "[^'\"`\n]+"

// ws is horizontal whitespace only, so calls split across lines never match
const ws = `[ \t]*`

// 📦 Payload describes what follows the path argument in a legacy call
type Payload int

const (
	NoPayload      Payload = iota // client.get(api, path)
	OptionsPayload                // client.get(api, path, { ... }), options are dropped
	BodyPayload                   // client.post(api, path, { body: expr })
)

// Shape is one legacy call family
type Shape struct {
	Verb    string
	Payload Payload
}

// DefaultShapes lists the call families in the order they are rewritten
var DefaultShapes = []Shape{
	{Verb: "get", Payload: NoPayload},
	{Verb: "get", Payload: OptionsPayload},
	{Verb: "post", Payload: BodyPayload},
	{Verb: "put", Payload: BodyPayload},
	{Verb: "del", Payload: NoPayload},
}

var knownVerbs = map[string]bool{"get": true, "post": true, "put": true, "del": true}

// 🎯 CallSpec describes the legacy call sites to rewrite
type CallSpec struct {
	Receiver   string  // client handle, e.g. client
	APIName    string  // API name literal, e.g. CalisthenicsAPI
	APIQuotes  []Quote // quote styles accepted around the API name
	PathQuotes []Quote // quote styles accepted around the path, preserved on output
	Shapes     []Shape
}

// DefaultCallSpec returns the full rule set used by the recursive driver
func DefaultCallSpec() CallSpec {
	return CallSpec{
		Receiver:   "client",
		APIName:    "CalisthenicsAPI",
		APIQuotes:  []Quote{SingleQuote, DoubleQuote},
		PathQuotes: []Quote{SingleQuote, DoubleQuote, BackQuote},
		Shapes:     DefaultShapes,
	}
}

// FlatCallSpec returns the reduced rule set used by the single-directory driver:
// single-quoted API name, back-quoted or single-quoted paths, no get options.
func FlatCallSpec() CallSpec {
	return CallSpec{
		Receiver:   "client",
		APIName:    "CalisthenicsAPI",
		APIQuotes:  []Quote{SingleQuote},
		PathQuotes: []Quote{BackQuote, SingleQuote},
		Shapes: []Shape{
			{Verb: "get", Payload: NoPayload},
			{Verb: "post", Payload: BodyPayload},
			{Verb: "put", Payload: BodyPayload},
			{Verb: "del", Payload: NoPayload},
		},
	}
}

// Validate checks that the spec can produce rules
func (s CallSpec) Validate() error {
	if s.Receiver == "" {
		return errors.Errorf("receiver is required")
	}
	if s.APIName == "" {
		return errors.Errorf("api name is required")
	}
	if len(s.APIQuotes) == 0 || len(s.PathQuotes) == 0 {
		return errors.Errorf("at least one api quote and one path quote are required")
	}
	for _, q := range append(append([]Quote{}, s.APIQuotes...), s.PathQuotes...) {
		if q.Name() == "unknown" {
			return errors.Errorf("unsupported quote %q", string(q))
		}
	}
	for i, shape := range s.Shapes {
		if !knownVerbs[shape.Verb] {
			return errors.Errorf("shape %d: unsupported verb %q", i, shape.Verb)
		}
	}
	return nil
}

// Marker is the substring every legacy call site contains
func (s CallSpec) Marker() string {
	return s.Receiver + "."
}

func quoteClass(quotes []Quote) string {
	var b strings.Builder
	b.WriteString("[")
	for _, q := range quotes {
		b.WriteString(string(q))
	}
	b.WriteString("]")
	return b.String()
}

// prefix matches `client.verb('API', <q>path<q>` and captures the path body
func (s CallSpec) prefix(verb string, q Quote) string {
	api := quoteClass(s.APIQuotes)
	return `\b` + regexp.QuoteMeta(s.Receiver) + `\.` + verb + `\(` +
		api + regexp.QuoteMeta(s.APIName) + api +
		ws + "," + ws + string(q) + "(" + pathChars + ")" + string(q)
}

// Rules returns the call-site rules, family by family, each for every path quote style
func (s CallSpec) Rules() []text.ReplacementRule {
	rules := make([]text.ReplacementRule, 0, len(s.Shapes)*len(s.PathQuotes))
	for _, shape := range s.Shapes {
		for _, q := range s.PathQuotes {
			rules = append(rules, s.rule(shape, q))
		}
	}
	return rules
}

func (s CallSpec) rule(shape Shape, q Quote) text.ReplacementRule {
	path := string(q) + "${1}" + string(q)
	switch shape.Payload {
	case OptionsPayload:
		// one level of nested braces, e.g. { queryStringParameters: { id } }
		return text.MustCompileRule(
			fmt.Sprintf("%s-options/%s", shape.Verb, q.Name()),
			s.prefix(shape.Verb, q)+ws+","+ws+`\{(?:[^{}\n]|\{[^{}\n]*\})*\}\)`,
			shape.Verb+"("+path+")",
		)
	case BodyPayload:
		return text.MustCompileRule(
			fmt.Sprintf("%s-body/%s", shape.Verb, q.Name()),
			s.prefix(shape.Verb, q)+ws+","+ws+`\{`+ws+`body:`+ws+`([^}\n]+?)`+ws+`\}\)`,
			shape.Verb+"("+path+", ${2})",
		)
	default:
		return text.MustCompileRule(
			fmt.Sprintf("%s/%s", shape.Verb, q.Name()),
			s.prefix(shape.Verb, q)+`\)`,
			shape.Verb+"("+path+")",
		)
	}
}

// LegacyCallPattern matches the start of any legacy call, whether or not a rule can rewrite it
func (s CallSpec) LegacyCallPattern() *regexp.Regexp {
	return regexp.MustCompile(`\b` + regexp.QuoteMeta(s.Receiver) + `\.(get|post|put|del)\(`)
}
