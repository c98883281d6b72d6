package main

import (
	"bytes"
	"fmt"
	"go/format"
	"sort"
	"strings"
	"text/template"
	"time"
	"unicode"

	"bodyfit-workers/pkg/registry"
)

// workerData feeds the scaffold templates.
type workerData struct {
	PackageName   string
	TaskType      string
	DisplayName   string
	Description   string
	ErrorCodes    []string
	MaxJobsActive int
	TimeoutExpr   string
	InputFields   []field
	OutputFields  []field
	Required      []string
}

type field struct {
	GoName      string
	JSONName    string
	GoType      string
	SchemaType  string
	Description string
	Enum        []string
	Required    bool
	Sample      string
}

var scaffoldFiles = []struct {
	name string
	tmpl string
}{
	{"handler.go", handlerTemplate},
	{"config.go", configTemplate},
	{"models.go", modelsTemplate},
	{"validation.go", validationTemplate},
	{"service.go", serviceTemplate},
	{"handler_test.go", testTemplate},
}

func newWorkerData(a registry.Activity, maxJobs int) workerData {
	data := workerData{
		PackageName:   strings.ReplaceAll(a.ID, "-", ""),
		TaskType:      a.TaskType,
		DisplayName:   a.DisplayName,
		Description:   a.Description,
		ErrorCodes:    a.ErrorCodes,
		MaxJobsActive: maxJobs,
		TimeoutExpr:   durationExpr(a.Timeout),
		InputFields:   schemaFields(a.InputSchema),
		OutputFields:  schemaFields(a.OutputSchema),
	}
	for _, f := range data.InputFields {
		if f.Required {
			data.Required = append(data.Required, f.JSONName)
		}
	}
	return data
}

// render executes every scaffold template and gofmts the result.
func render(data workerData) (map[string][]byte, error) {
	funcs := template.FuncMap{"join": strings.Join}

	out := make(map[string][]byte, len(scaffoldFiles))
	for _, f := range scaffoldFiles {
		tmpl, err := template.New(f.name).Funcs(funcs).Parse(f.tmpl)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", f.name, err)
		}
		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, data); err != nil {
			return nil, fmt.Errorf("execute %s: %w", f.name, err)
		}
		src, err := format.Source(buf.Bytes())
		if err != nil {
			return nil, fmt.Errorf("format %s: %w", f.name, err)
		}
		out[f.name] = src
	}
	return out, nil
}

// schemaFields turns a registry schema ({"name": {"type": ..., "required": ...}}) into
// struct fields sorted by JSON name.
func schemaFields(schema map[string]interface{}) []field {
	names := make([]string, 0, len(schema))
	for name := range schema {
		names = append(names, name)
	}
	sort.Strings(names)

	fields := make([]field, 0, len(names))
	for _, name := range names {
		prop, _ := schema[name].(map[string]interface{})
		schemaType, _ := prop["type"].(string)
		if schemaType == "" {
			schemaType = "string"
		}
		f := field{
			GoName:     goName(name),
			JSONName:   name,
			GoType:     goType(schemaType),
			SchemaType: schemaType,
		}
		f.Description, _ = prop["description"].(string)
		f.Required, _ = prop["required"].(bool)
		if values, ok := prop["enum"].([]interface{}); ok {
			for _, v := range values {
				if s, ok := v.(string); ok {
					f.Enum = append(f.Enum, s)
				}
			}
		}
		f.Sample = sampleValue(f)
		fields = append(fields, f)
	}
	return fields
}

func goType(schemaType string) string {
	switch schemaType {
	case "number":
		return "float64"
	case "integer":
		return "int"
	case "boolean":
		return "bool"
	case "array":
		return "[]interface{}"
	case "object":
		return "map[string]interface{}"
	default:
		return "string"
	}
}

func sampleValue(f field) string {
	switch f.SchemaType {
	case "number":
		return "1.5"
	case "integer":
		return "1"
	case "boolean":
		return "true"
	case "array":
		return `[]interface{}{"sample"}`
	case "object":
		return "map[string]interface{}{}"
	}
	if len(f.Enum) > 0 {
		return fmt.Sprintf("%q", f.Enum[0])
	}
	return `"sample"`
}

// goName exports a camelCase JSON name, keeping Go initialisms (bodyModelId -> BodyModelID).
func goName(jsonName string) string {
	if jsonName == "" {
		return ""
	}
	r := []rune(jsonName)
	r[0] = unicode.ToUpper(r[0])
	name := string(r)

	for _, suffix := range []struct{ from, to string }{{"Ids", "IDs"}, {"Id", "ID"}, {"Url", "URL"}} {
		if strings.HasSuffix(name, suffix.from) {
			return strings.TrimSuffix(name, suffix.from) + suffix.to
		}
	}
	return name
}

func durationExpr(timeout string) string {
	d, err := time.ParseDuration(timeout)
	if err != nil || d <= 0 {
		d = 10 * time.Second
	}
	if d%time.Second == 0 {
		return fmt.Sprintf("%d * time.Second", d/time.Second)
	}
	return fmt.Sprintf("%d * time.Millisecond", d/time.Millisecond)
}

func categoryDirectory(category string) string {
	switch category {
	case "body-model", "body":
		return "body"
	case "try-on", "tryon":
		return "tryon"
	default:
		return strings.ToLower(category)
	}
}
