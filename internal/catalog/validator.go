package catalog

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"go.yaml.in/yaml/v3"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const schemaURL = "catalog.schema.json"

//go:embed schema/catalog.schema.json
var schemaJSON []byte

var issuePrinter = message.NewPrinter(language.English)

// catalogSchema is compiled on first use.
var catalogSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", schemaURL, err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaURL, doc); err != nil {
		return nil, fmt.Errorf("registering %s: %w", schemaURL, err)
	}
	return compiler.Compile(schemaURL)
})

// ValidationResult is the outcome of checking a catalog against the schema.
type ValidationResult struct {
	Valid  bool
	Issues []ValidationIssue
}

// ValidationIssue is one schema violation.
type ValidationIssue struct {
	Path    string // JSON pointer into the catalog, e.g. /server/folders/2
	Message string
	Keyword string
}

func (i ValidationIssue) String() string {
	if i.Path == "" {
		return i.Message
	}
	return i.Path + ": " + i.Message
}

// InvalidError is returned by Parse when a catalog fails schema validation.
type InvalidError struct {
	Issues []ValidationIssue
}

func (e *InvalidError) Error() string {
	msgs := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		msgs[i] = issue.String()
	}
	return fmt.Sprintf("invalid catalog (%d issue(s)): %s", len(e.Issues), strings.Join(msgs, "; "))
}

// Validate checks raw catalog YAML against the embedded schema. A non-nil
// error means the YAML or the schema could not be read; violations are
// reported in the result.
func Validate(data []byte) (*ValidationResult, error) {
	schema, err := catalogSchema()
	if err != nil {
		return nil, fmt.Errorf("catalog schema: %w", err)
	}
	inst, err := instanceFromYAML(data)
	if err != nil {
		return nil, err
	}

	var ve *jsonschema.ValidationError
	switch err := schema.Validate(inst); {
	case err == nil:
		return &ValidationResult{Valid: true}, nil
	case asValidationError(err, &ve):
		return &ValidationResult{Issues: leafIssues(ve)}, nil
	default:
		return nil, fmt.Errorf("validating catalog: %w", err)
	}
}

// ValidateFile is Validate on the contents of path.
func ValidateFile(path string) (*ValidationResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", path, err)
	}
	return Validate(data)
}

func asValidationError(err error, target **jsonschema.ValidationError) bool {
	ve, ok := err.(*jsonschema.ValidationError)
	*target = ve
	return ok
}

// instanceFromYAML decodes YAML and re-reads it as JSON, which gives the
// validator json.Number values and string-keyed objects.
func instanceFromYAML(data []byte) (any, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}
	encoded, err := json.Marshal(jsonCompatible(doc))
	if err != nil {
		return nil, fmt.Errorf("converting catalog to JSON: %w", err)
	}
	return jsonschema.UnmarshalJSON(bytes.NewReader(encoded))
}

// leafIssues flattens the error tree, keeping only keywords that describe an
// actual violation, in tree order and without repeats.
func leafIssues(root *jsonschema.ValidationError) []ValidationIssue {
	var issues []ValidationIssue
	seen := make(map[ValidationIssue]bool)

	stack := []*jsonschema.ValidationError{root}
	for len(stack) > 0 {
		ve := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if len(ve.Causes) > 0 {
			for i := len(ve.Causes) - 1; i >= 0; i-- {
				stack = append(stack, ve.Causes[i])
			}
			continue
		}
		issue, ok := issueOf(ve)
		if ok && !seen[issue] {
			seen[issue] = true
			issues = append(issues, issue)
		}
	}

	if len(issues) == 0 {
		return []ValidationIssue{{Message: root.Error()}}
	}
	return issues
}

func issueOf(ve *jsonschema.ValidationError) (ValidationIssue, bool) {
	if ve.ErrorKind == nil {
		return ValidationIssue{}, false
	}
	kw := ve.ErrorKind.KeywordPath()
	if len(kw) == 0 {
		return ValidationIssue{}, false
	}
	switch last := kw[len(kw)-1]; last {
	case "allOf", "$ref":
		return ValidationIssue{}, false
	default:
		issue := ValidationIssue{
			Message: ve.ErrorKind.LocalizedString(issuePrinter),
			Keyword: last,
		}
		if len(ve.InstanceLocation) > 0 {
			issue.Path = "/" + strings.Join(ve.InstanceLocation, "/")
		}
		return issue, true
	}
}

// jsonCompatible rewrites map[any]any nodes so encoding/json accepts them.
func jsonCompatible(v any) any {
	switch val := v.(type) {
	case map[string]any:
		for k, child := range val {
			val[k] = jsonCompatible(child)
		}
		return val
	case map[any]any:
		m := make(map[string]any, len(val))
		for k, child := range val {
			m[fmt.Sprint(k)] = jsonCompatible(child)
		}
		return m
	case []any:
		for i, child := range val {
			val[i] = jsonCompatible(child)
		}
		return val
	default:
		return val
	}
}
