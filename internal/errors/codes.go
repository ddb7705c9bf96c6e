package errors

// Code is a stable identifier for a fatal error or a diagnostic
type Code string

const (
	// Lexical
	UnterminatedString  Code = "UNTERMINATED_STRING"
	UnterminatedComment Code = "UNTERMINATED_COMMENT"
	InvalidChar         Code = "INVALID_CHAR"

	// Structure
	OpeningParenthesisExpected       Code = "OPENING_PARENTHESIS_EXPECTED"
	ClosingParenthesisExpected       Code = "CLOSING_PARENTHESIS_EXPECTED"
	OpeningCurlyBracketExpected      Code = "OPENING_CURLY_BRACKET_EXPECTED"
	ClosingSquareBracketExpected     Code = "CLOSING_SQUARE_BRACKET_EXPECTED"
	ClosingChevronExpected           Code = "CLOSING_CHEVRON_EXPECTED"
	ParenthesisExpectedAfterParams   Code = "PARENTHESIS_EXPECTED_AFTER_PARAMETERS"
	ParenthesisExpectedAfterFunction Code = "PARENTHESIS_EXPECTED_AFTER_FUNCTION"
	EndOfInstructionExpected         Code = "END_OF_INSTRUCTION_EXPECTED"
	EndOfScriptUnexpected            Code = "END_OF_SCRIPT_UNEXPECTED"
	EndOfClassExpected               Code = "END_OF_CLASS_EXPECTED"
	CommaExpected                    Code = "COMMA_EXPECTED"
	ArrowExpected                    Code = "ARROW_EXPECTED"
	DotDotExpected                   Code = "DOT_DOT_EXPECTED"
	WhileExpectedAfterDo             Code = "WHILE_EXPECTED_AFTER_DO"
	KeywordInExpected                Code = "KEYWORD_IN_EXPECTED"
	KeywordUnexpected                Code = "KEYWORD_UNEXPECTED"
	NoBlocToClose                    Code = "NO_BLOC_TO_CLOSE"
	OpenBlocRemaining                Code = "OPEN_BLOC_REMAINING"
	NoIfBlock                        Code = "NO_IF_BLOCK"
	IncludeOnlyInMainBlock           Code = "INCLUDE_ONLY_IN_MAIN_BLOCK"
	FunctionOnlyInMainBlock          Code = "FUNCTION_ONLY_IN_MAIN_BLOCK"
	GlobalOnlyInMainBlock            Code = "GLOBAL_ONLY_IN_MAIN_BLOCK"
	ClassOnlyInMainBlock             Code = "CLASS_ONLY_IN_MAIN_BLOCK"
	AINameExpected                   Code = "AI_NAME_EXPECTED"
	AINotExisting                    Code = "AI_NOT_EXISTING"

	// Names
	VarNameExpected            Code = "VAR_NAME_EXPECTED"
	VarNameExpectedAfterGlobal Code = "VAR_NAME_EXPECTED_AFTER_GLOBAL"
	VariableNameExpected       Code = "VARIABLE_NAME_EXPECTED"
	VariableNameUnavailable    Code = "VARIABLE_NAME_UNAVAILABLE"
	FunctionNameExpected       Code = "FUNCTION_NAME_EXPECTED"
	FunctionNameUnavailable    Code = "FUNCTION_NAME_UNAVAILABLE"
	ParameterNameExpected      Code = "PARAMETER_NAME_EXPECTED"
	ParameterNameUnavailable   Code = "PARAMETER_NAME_UNAVAILABLE"
	ClassNameExpected          Code = "CLASS_NAME_EXPECTED"
	TypeExpected               Code = "TYPE_EXPECTED"

	// Semantics
	BreakOutOfLoop           Code = "BREAK_OUT_OF_LOOP"
	ContinueOutOfLoop        Code = "CONTINUE_OUT_OF_LOOP"
	KeywordMustBeInClass     Code = "KEYWORD_MUST_BE_IN_CLASS"
	SuperNotAvailableParent  Code = "SUPER_NOT_AVAILABLE_PARENT"
	ConstructorAlreadyExists Code = "CONSTRUCTOR_ALREADY_EXISTS"
	SimpleArray              Code = "SIMPLE_ARRAY"
	AssociativeArray         Code = "ASSOCIATIVE_ARRAY"
	CantAssignValue          Code = "CANT_ASSIGN_VALUE"

	// Expressions
	ValueExpected             Code = "VALUE_EXPECTED"
	OperatorUnexpected        Code = "OPERATOR_UNEXPECTED"
	UncompleteExpression      Code = "UNCOMPLETE_EXPRESSION"
	InvalidNumber             Code = "INVALID_NUMBER"
	MultipleNumericSeparators Code = "MULTIPLE_NUMERIC_SEPARATORS"

	// Notices
	ReferenceDeprecated Code = "REFERENCE_DEPRECATED"

	// Resources
	TooMuchErrors Code = "TOO_MUCH_ERRORS"
	AITimeout     Code = "AI_TIMEOUT"
)

// Category returns the stage a code belongs to
func (c Code) Category() Category {
	switch c {
	case UnterminatedString, UnterminatedComment, InvalidChar:
		return CategoryLexical
	case BreakOutOfLoop, ContinueOutOfLoop, KeywordMustBeInClass, SuperNotAvailableParent,
		ConstructorAlreadyExists, CantAssignValue, VariableNameUnavailable, FunctionNameUnavailable,
		ParameterNameUnavailable, AINotExisting:
		return CategorySemantic
	case ReferenceDeprecated:
		return CategoryDeprecated
	case TooMuchErrors, AITimeout:
		return CategoryResource
	default:
		return CategorySyntax
	}
}
