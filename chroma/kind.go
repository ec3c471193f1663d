package chroma

import (
	chromalib "github.com/alecthomas/chroma/v2"
	"github.com/fwojciec/mergeguard"
)

// KindOf maps a chroma token type to a mergeguard token kind.
func KindOf(tt chromalib.TokenType) mergeguard.TokenKind {
	switch tt {
	case chromalib.Keyword, chromalib.KeywordConstant, chromalib.KeywordDeclaration,
		chromalib.KeywordNamespace, chromalib.KeywordPseudo, chromalib.KeywordReserved,
		chromalib.KeywordType:
		return mergeguard.TokenKeyword

	case chromalib.NameBuiltin, chromalib.NameBuiltinPseudo:
		return mergeguard.TokenBuiltin

	case chromalib.NameVariable, chromalib.NameVariableClass, chromalib.NameVariableGlobal,
		chromalib.NameVariableInstance, chromalib.NameVariableMagic:
		return mergeguard.TokenVariable

	case chromalib.Comment, chromalib.CommentHashbang, chromalib.CommentMultiline,
		chromalib.CommentPreproc, chromalib.CommentPreprocFile, chromalib.CommentSingle,
		chromalib.CommentSpecial:
		return mergeguard.TokenComment

	case chromalib.String, chromalib.StringAffix, chromalib.StringBacktick, chromalib.StringChar,
		chromalib.StringDelimiter, chromalib.StringDoc, chromalib.StringDouble,
		chromalib.StringEscape, chromalib.StringHeredoc, chromalib.StringInterpol,
		chromalib.StringOther, chromalib.StringRegex, chromalib.StringSingle,
		chromalib.StringSymbol:
		return mergeguard.TokenString

	case chromalib.Number, chromalib.NumberBin, chromalib.NumberFloat, chromalib.NumberHex,
		chromalib.NumberInteger, chromalib.NumberIntegerLong, chromalib.NumberOct:
		return mergeguard.TokenNumber

	case chromalib.Operator, chromalib.OperatorWord:
		return mergeguard.TokenOperator

	default:
		return mergeguard.TokenPlain
	}
}
