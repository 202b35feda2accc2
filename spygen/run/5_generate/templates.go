package generate

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"text/template"
)

// TemplateRegistry holds all parsed text templates for code generation.
// Create a registry using NewTemplateRegistry() to initialize all templates.
type TemplateRegistry struct {
	headerTmpl        *template.Template
	spyStructTmpl     *template.Template
	plainMethodTmpl   *template.Template
	promiseMethodTmpl *template.Template
	streamMethodTmpl  *template.Template
}

// NewTemplateRegistry creates and initializes a new template registry with all templates parsed.
// Templates are hardcoded constants, so parsing cannot fail at runtime.
func NewTemplateRegistry() *TemplateRegistry {
	funcs := template.FuncMap{
		"quote":     strconv.Quote,
		"quoteList": quoteList,
	}

	parse := func(name, text string) *template.Template {
		return template.Must(template.New(name).Funcs(funcs).Parse(text))
	}

	return &TemplateRegistry{
		headerTmpl:        parse("header", headerTemplate),
		spyStructTmpl:     parse("spyStruct", spyStructTemplate),
		plainMethodTmpl:   parse("plainMethod", plainMethodTemplate),
		promiseMethodTmpl: parse("promiseMethod", promiseMethodTemplate),
		streamMethodTmpl:  parse("streamMethod", streamMethodTemplate),
	}
}

// WriteHeader writes the generated file header: package clause and imports.
func (r *TemplateRegistry) WriteHeader(buf *bytes.Buffer, data any) {
	execute(r.headerTmpl, buf, data)
}

// WriteMethod writes one spied method, picking the template for its kind.
func (r *TemplateRegistry) WriteMethod(buf *bytes.Buffer, method methodData) {
	switch method.Kind {
	case kindPromise:
		execute(r.promiseMethodTmpl, buf, method)
	case kindStream:
		execute(r.streamMethodTmpl, buf, method)
	default:
		execute(r.plainMethodTmpl, buf, method)
	}
}

// WriteSpyStruct writes the spy struct, its constructor and the interface
// assertion.
func (r *TemplateRegistry) WriteSpyStruct(buf *bytes.Buffer, data any) {
	execute(r.spyStructTmpl, buf, data)
}

const headerTemplate = `// Code generated by spygen. DO NOT EDIT.

package {{.PkgName}}

import (
{{- range .Imports}}
	{{.}}
{{- end}}
)
`

const spyStructTemplate = `
// {{.SpyName}} is a spy implementation of {{.IfaceType}}.
type {{.SpyName}} struct {
	*impspy.Mock
}

// New{{.SpyName}} creates a {{.SpyName}} with a spy for every method of {{.IfaceType}}.
func New{{.SpyName}}(opts ...impspy.Option) *{{.SpyName}} {
{{- if or .Promise .Stream}}
	opts = append([]impspy.Option{
{{- if .Promise}}
		impspy.WithPromiseMethods({{quoteList .Promise}}),
{{- end}}
{{- if .Stream}}
		impspy.WithStreamMethods({{quoteList .Stream}}),
{{- end}}
	}, opts...)
{{end}}
	return &{{.SpyName}}{Mock: impspy.New({{quote .IfaceName}}, []string{ {{- quoteList .MethodNames -}} }, opts...)}
}

var _ {{.IfaceType}} = (*{{.SpyName}})(nil)
`

const plainMethodTemplate = `
// {{.Name}} records the call and returns what the {{.Name}} spy is configured to return.
func (s *{{.SpyName}}) {{.Name}}({{.Params}}){{.Results}} {
{{- if .ResultTypes}}
	results := s.Mock.Spy({{quote .Name}}).Call({{.Args}})

	return {{range $i, $t := .ResultTypes}}{{if $i}}, {{end}}impspy.Result[{{$t}}](results, {{$i}}){{end}}
{{- else}}
	s.Mock.Spy({{quote .Name}}).Call({{.Args}})
{{- end}}
}
`

const promiseMethodTemplate = `
// {{.Name}} records the call and waits for the test to settle the {{.Name}} promise.
func (s *{{.SpyName}}) {{.Name}}({{.Params}}){{.Results}} {
	{{.ValueVar}}, {{.ErrVar}} := {{if .CtxArg}}s.Mock.Await({{.CtxArg}}, {{else}}s.Mock.Wait({{end}}s.Mock.Promise({{quote .Name}}).Call({{.Args}}))

	return {{if .ValueType}}impspy.As[{{.ValueType}}](value){{end}}{{if and .ValueType .HasErr}}, {{end}}{{if .HasErr}}err{{end}}
}
`

const streamMethodTemplate = `
// {{.Name}} records the call and returns the values pushed on the {{.Name}} stream.
func (s *{{.SpyName}}) {{.Name}}({{.Params}}){{.Results}} {
	return impspy.Channel[{{.ValueType}}](s.Mock.Stream({{quote .Name}}).Call({{.Args}})){{if .HasErr}}, nil{{end}}
}
`

func execute(tmpl *template.Template, buf *bytes.Buffer, data any) {
	err := tmpl.Execute(buf, data)
	if err != nil {
		panic(fmt.Sprintf("failed to execute %s template: %v", tmpl.Name(), err))
	}
}

func quoteList(names []string) string {
	quoted := make([]string, len(names))
	for i, name := range names {
		quoted[i] = strconv.Quote(name)
	}

	return strings.Join(quoted, ", ")
}
