package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Command-line option errors
const (
	// ErrCodeInvalidOption indicates an unexpected command-line argument.
	ErrCodeInvalidOption ErrorCode = "INVALID_OPTION"
	// ErrCodeDuplicateOption indicates an option given more than once.
	ErrCodeDuplicateOption ErrorCode = "DUPLICATE_OPTION"
	// ErrCodeMissingOption indicates a mandatory option is absent.
	ErrCodeMissingOption ErrorCode = "MISSING_OPTION"
	// ErrCodeMissingOptionValue indicates an option flag without a value.
	ErrCodeMissingOptionValue ErrorCode = "MISSING_OPTION_VALUE"
	// ErrCodeInvalidSettings indicates the loaded settings failed validation.
	ErrCodeInvalidSettings ErrorCode = "INVALID_SETTINGS"
)

// Cypher spec errors
const (
	// ErrCodeUnknownCypher indicates an unsupported cypher family.
	ErrCodeUnknownCypher ErrorCode = "UNKNOWN_CYPHER"
	// ErrCodeIncorrectShiftSpec indicates a malformed shift/direction token.
	ErrCodeIncorrectShiftSpec ErrorCode = "INCORRECT_SHIFT_SPEC"
)

// File errors
const (
	// ErrCodeInputFile indicates the input endpoint failed to open, read or close.
	ErrCodeInputFile ErrorCode = "INPUT_FILE_ERROR"
	// ErrCodeOutputFile indicates the output endpoint failed to open, write or close.
	ErrCodeOutputFile ErrorCode = "OUTPUT_FILE_ERROR"
)

// Internal errors
const (
	// ErrCodeInternal indicates an unexpected failure inside the pipeline.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// Category groups error codes by the phase that raises them.
type Category string

const (
	CategoryOptions    Category = "options"
	CategoryCypherSpec Category = "cypher_spec"
	CategoryFile       Category = "file"
	CategoryInternal   Category = "internal"
)

var codeCategories = map[ErrorCode]Category{
	ErrCodeInvalidOption:      CategoryOptions,
	ErrCodeDuplicateOption:    CategoryOptions,
	ErrCodeMissingOption:      CategoryOptions,
	ErrCodeMissingOptionValue: CategoryOptions,
	ErrCodeInvalidSettings:    CategoryOptions,
	ErrCodeUnknownCypher:      CategoryCypherSpec,
	ErrCodeIncorrectShiftSpec: CategoryCypherSpec,
	ErrCodeInputFile:          CategoryFile,
	ErrCodeOutputFile:         CategoryFile,
	ErrCodeInternal:           CategoryInternal,
}

var categoryExitCodes = map[Category]int{
	CategoryOptions:    1,
	CategoryCypherSpec: 2,
	CategoryFile:       3,
	CategoryInternal:   3,
}

// CategoryOf returns the category of an error code.
// Unknown codes are treated as internal.
func CategoryOf(code ErrorCode) Category {
	if c, ok := codeCategories[code]; ok {
		return c
	}
	return CategoryInternal
}

// ExitCodeOf returns the process exit code for an error category.
func ExitCodeOf(c Category) int {
	if code, ok := categoryExitCodes[c]; ok {
		return code
	}
	return categoryExitCodes[CategoryInternal]
}
