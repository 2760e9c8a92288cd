package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/cue/token"

	"github.com/roach88/ddverify/internal/compiler"
	"github.com/roach88/ddverify/internal/dd"
)

// LoadMode controls how errors are handled during spec loading.
type LoadMode int

const (
	// LoadModeFailFast stops on the first error encountered.
	LoadModeFailFast LoadMode = iota
	// LoadModeCollectAll collects all errors before returning.
	LoadModeCollectAll
)

// LoadResult contains the DDs loaded from a specs directory, in label order.
type LoadResult struct {
	DDs       []compiler.NamedDD
	FileCount int // Number of CUE files found
}

// Find returns the DD with the given name.
func (r *LoadResult) Find(name string) (compiler.NamedDD, bool) {
	for _, d := range r.DDs {
		if d.Name == name {
			return d, true
		}
	}
	return compiler.NamedDD{}, false
}

// Names returns the loaded DD names.
func (r *LoadResult) Names() []string {
	names := make([]string, len(r.DDs))
	for i, d := range r.DDs {
		names[i] = d.Name
	}
	return names
}

// LoadError represents an error that occurred during spec loading.
type LoadError struct {
	Code    string
	Spec    string // DD name, empty for directory-level errors
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// LoadSpecs loads and compiles every `dd: <name>: ...` entry in a directory.
// If mode is LoadModeFailFast, returns on first error.
// If mode is LoadModeCollectAll, collects all errors.
func LoadSpecs(dir string, mode LoadMode) (*LoadResult, []error) {
	var errs []error

	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("specs directory not found: %s", dir)}}
	}
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing specs directory: %v", err)}}
	}
	if !info.IsDir() {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("not a directory: %s", dir)}}
	}

	cueFiles, err := FindCUEFiles(dir)
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}}
	}
	if len(cueFiles) == 0 {
		return nil, []error{&LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE files found in %s", dir)}}
	}

	ctx := cuecontext.New()
	instances := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return nil, []error{&LoadError{Code: ErrCodeLoadFailed, Message: "no CUE instances loaded"}}
	}

	inst := instances[0]
	if inst.Err != nil {
		return nil, []error{&LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("loading CUE files: %v", inst.Err)}}
	}

	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, []error{&LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("building CUE value: %v", err)}}
	}

	result := &LoadResult{FileCount: len(cueFiles)}

	ddsVal := value.LookupPath(cue.ParsePath("dd"))
	if ddsVal.Exists() {
		iter, iterErr := ddsVal.Fields()
		if iterErr != nil {
			return result, []error{&LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("iterating dd: %v", iterErr)}}
		}
		for iter.Next() {
			spec, compileErr := compiler.CompileDD(iter.Value())
			if compileErr != nil {
				errs = append(errs, convertCompileError(compileErr, iter.Label()))
				if mode == LoadModeFailFast {
					return result, errs
				}
				continue
			}
			result.DDs = append(result.DDs, *spec)
		}
	}

	if len(result.DDs) == 0 && len(errs) == 0 {
		errs = append(errs, &LoadError{Code: ErrCodeGeneric, Message: "no dd entries found in specs"})
	}

	return result, errs
}

// FindCUEFiles walks the directory and returns all .cue file paths.
func FindCUEFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == ".cue" {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// convertCompileError converts a compiler error to a LoadError with position info.
func convertCompileError(err error, spec string) *LoadError {
	var compileErr *compiler.CompileError
	if errors.As(err, &compileErr) {
		return &LoadError{
			Code:    MapFieldToErrorCode(compileErr.Field),
			Spec:    spec,
			Message: compileErr.Message,
			Pos:     compileErr.Pos,
		}
	}
	return &LoadError{
		Code:    ErrCodeGeneric,
		Spec:    spec,
		Message: fmt.Sprintf("dd.%s: %v", spec, err),
	}
}

// Error code constants - unified across all CLI commands.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeScanError   = "E002" // Directory scan error
	ErrCodeNoFiles     = "E003" // No CUE files found
	ErrCodeLoadFailed  = "E004" // CUE load failed
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeBuildFailed = "E006" // CUE build failed
	ErrCodeBadFlags    = "E007" // Invalid flag combination

	// Spec compile errors
	ErrCodeMissingSide   = "E101" // lhs or rhs missing
	ErrCodeBadConstraint = "E102" // constraint entry malformed
	ErrCodeDDSyntax      = "E103" // textual DD does not parse
	ErrCodeSpecNotFound  = "E104" // --name not present in specs
	ErrCodeSpecAmbiguous = "E105" // several DDs and no --name

	// Verification errors
	ErrCodeInvalidConstraint     = "E110"
	ErrCodeUnknownColumn         = "E120"
	ErrCodeUnsupportedColumnType = "E121"
	ErrCodeMissingValue          = "E122"

	// Table source errors
	ErrCodeTableLoad = "E201" // CSV or SQLite table could not be read
	ErrCodeHistory   = "E202" // run history could not be written or read
)

// MapFieldToErrorCode maps a compiler error field to an error code.
func MapFieldToErrorCode(field string) string {
	switch {
	case field == "lhs" || field == "rhs":
		return ErrCodeMissingSide
	case strings.HasPrefix(field, "lhs[") || strings.HasPrefix(field, "rhs["):
		return ErrCodeBadConstraint
	case field == "dd":
		return ErrCodeDDSyntax
	default:
		return ErrCodeGeneric
	}
}

// MapVerificationErrorCode maps a dd.ErrorCode to a CLI error code.
func MapVerificationErrorCode(code dd.ErrorCode) string {
	switch code {
	case dd.ErrCodeInvalidConstraint:
		return ErrCodeInvalidConstraint
	case dd.ErrCodeUnknownColumn:
		return ErrCodeUnknownColumn
	case dd.ErrCodeUnsupportedColumnType:
		return ErrCodeUnsupportedColumnType
	case dd.ErrCodeMissingValue:
		return ErrCodeMissingValue
	default:
		return ErrCodeGeneric
	}
}
