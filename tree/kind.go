package tree

// Kind identifies the syntactic construct a Tree represents.
type Kind int

const (
	KindCompilationUnit Kind = iota
	KindImport

	// Declarations
	KindClass
	KindInterface
	KindEnum
	KindAnnotationType
	KindRecord
	KindAnnotation
	KindTypeParameter
	KindMethod
	KindConstructor
	KindVariable
	KindEnumConstant

	// Statements
	KindBlock
	KindExpressionStatement
	KindIf
	KindWhile
	KindDoWhile
	KindFor
	KindForEach
	KindReturn
	KindThrow
	KindBreak
	KindContinue
	KindYield
	KindTry
	KindCatch
	KindSwitch
	KindCase
	KindLabeled
	KindSynchronized
	KindAssert
	KindEmpty

	// Expressions
	KindIdentifier
	KindMemberSelect
	KindMethodInvocation
	KindNewClass
	KindNewArray
	KindBinary
	KindUnary
	KindAssignment
	KindConditional
	KindInstanceOf
	KindCast
	KindArrayAccess
	KindParenthesized
	KindLambda
	KindMethodReference
	KindErroneous

	// Literals
	KindIntLiteral
	KindLongLiteral
	KindFloatLiteral
	KindDoubleLiteral
	KindCharLiteral
	KindStringLiteral
	KindBooleanLiteral
	KindNullLiteral

	// Type trees
	KindPrimitiveType
	KindArrayType
	KindParameterizedType
	KindWildcard
	KindUnionType
)

var kindNames = map[Kind]string{
	KindCompilationUnit:     "CompilationUnit",
	KindImport:              "Import",
	KindClass:               "Class",
	KindInterface:           "Interface",
	KindEnum:                "Enum",
	KindAnnotationType:      "AnnotationType",
	KindRecord:              "Record",
	KindAnnotation:          "Annotation",
	KindTypeParameter:       "TypeParameter",
	KindMethod:              "Method",
	KindConstructor:         "Constructor",
	KindVariable:            "Variable",
	KindEnumConstant:        "EnumConstant",
	KindBlock:               "Block",
	KindExpressionStatement: "ExpressionStatement",
	KindIf:                  "If",
	KindWhile:               "While",
	KindDoWhile:             "DoWhile",
	KindFor:                 "For",
	KindForEach:             "ForEach",
	KindReturn:              "Return",
	KindThrow:               "Throw",
	KindBreak:               "Break",
	KindContinue:            "Continue",
	KindYield:               "Yield",
	KindTry:                 "Try",
	KindCatch:               "Catch",
	KindSwitch:              "Switch",
	KindCase:                "Case",
	KindLabeled:             "Labeled",
	KindSynchronized:        "Synchronized",
	KindAssert:              "Assert",
	KindEmpty:               "Empty",
	KindIdentifier:          "Identifier",
	KindMemberSelect:        "MemberSelect",
	KindMethodInvocation:    "MethodInvocation",
	KindNewClass:            "NewClass",
	KindNewArray:            "NewArray",
	KindBinary:              "Binary",
	KindUnary:               "Unary",
	KindAssignment:          "Assignment",
	KindConditional:         "Conditional",
	KindInstanceOf:          "InstanceOf",
	KindCast:                "Cast",
	KindArrayAccess:         "ArrayAccess",
	KindParenthesized:       "Parenthesized",
	KindLambda:              "Lambda",
	KindMethodReference:     "MethodReference",
	KindErroneous:           "Erroneous",
	KindIntLiteral:          "IntLiteral",
	KindLongLiteral:         "LongLiteral",
	KindFloatLiteral:        "FloatLiteral",
	KindDoubleLiteral:       "DoubleLiteral",
	KindCharLiteral:         "CharLiteral",
	KindStringLiteral:       "StringLiteral",
	KindBooleanLiteral:      "BooleanLiteral",
	KindNullLiteral:         "NullLiteral",
	KindPrimitiveType:       "PrimitiveType",
	KindArrayType:           "ArrayType",
	KindParameterizedType:   "ParameterizedType",
	KindWildcard:            "Wildcard",
	KindUnionType:           "UnionType",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown"
}
