package parsers

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// turtleLexer tokenizes Turtle. Rules are tried in order, so the longer
// string forms and prefixed names come before the shorter fallbacks.
var turtleLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `#[^\n]*`},
	{Name: "Whitespace", Pattern: `\s+`},
	{Name: "IRIRef", Pattern: `<(?:[^<>"{}|^` + "`" + `\\\x00-\x20]|\\u[0-9A-Fa-f]{4}|\\U[0-9A-Fa-f]{8})*>`},
	{Name: "LongString", Pattern: `"""(?:(?:"|"")?(?:[^"\\]|\\.))*"""`},
	{Name: "LongSingle", Pattern: `'''(?:(?:'|'')?(?:[^'\\]|\\.))*'''`},
	{Name: "String", Pattern: `"(?:[^"\\\n\r]|\\.)*"`},
	{Name: "SingleString", Pattern: `'(?:[^'\\\n\r]|\\.)*'`},
	{Name: "Directive", Pattern: `@(?:prefix|base)\b`},
	{Name: "LangTag", Pattern: `@[a-zA-Z]+(?:-[a-zA-Z0-9]+)*`},
	{Name: "BlankNode", Pattern: `_:[A-Za-z0-9_](?:[A-Za-z0-9_.\-]*[A-Za-z0-9_\-])?`},
	{Name: "Number", Pattern: `[+-]?(?:[0-9]+\.[0-9]*[eE][+-]?[0-9]+|\.?[0-9]+[eE][+-]?[0-9]+|[0-9]*\.[0-9]+|[0-9]+)`},
	{Name: "PName", Pattern: `(?:[A-Za-z][A-Za-z0-9_.\-]*)?:(?:(?:[A-Za-z0-9_:]|%[0-9A-Fa-f]{2}|\\[_~.\-!$&'()*+,;=/?#@%])(?:(?:[A-Za-z0-9_.\-:]|%[0-9A-Fa-f]{2}|\\[_~.\-!$&'()*+,;=/?#@%])*(?:[A-Za-z0-9_\-:]|%[0-9A-Fa-f]{2}|\\[_~.\-!$&'()*+,;=/?#@%]))?)?`},
	{Name: "Ident", Pattern: `[A-Za-z]+`},
	{Name: "Punct", Pattern: `\^\^|[.;,\[\]()]`},
})

var turtleParser = participle.MustBuild[turtleDoc](
	participle.Lexer(turtleLexer),
	participle.Elide("Whitespace", "Comment"),
	participle.UseLookahead(2),
)

//nolint:govet // participle grammar tags are not standard struct tags
type turtleDoc struct {
	Statements []*turtleStatement `@@*`
}

//nolint:govet // participle grammar tags are not standard struct tags
type turtleStatement struct {
	Prefix  *prefixDecl   `  @@`
	Base    *baseDecl     `| @@`
	Triples *triplesBlock `| @@ "."`
}

//nolint:govet // participle grammar tags are not standard struct tags
type prefixDecl struct {
	Sparql bool   `( @("PREFIX" | "prefix" | "Prefix") | "@prefix" )`
	Name   string `@PName`
	IRI    string `@IRIRef`
	Dot    bool   `@"."?`
}

//nolint:govet // participle grammar tags are not standard struct tags
type baseDecl struct {
	Sparql bool   `( @("BASE" | "base" | "Base") | "@base" )`
	IRI    string `@IRIRef`
	Dot    bool   `@"."?`
}

//nolint:govet // participle grammar tags are not standard struct tags
type triplesBlock struct {
	Subject    *turtleNode         `@@`
	Predicates []*predicateObjects `( @@ ( ";" @@? )* )?`
}

//nolint:govet // participle grammar tags are not standard struct tags
type predicateObjects struct {
	Verb    *turtleVerb   `@@`
	Objects []*turtleNode `@@ ( "," @@ )*`
}

//nolint:govet // participle grammar tags are not standard struct tags
type turtleVerb struct {
	A   bool       `  @"a"`
	IRI *turtleIRI `| @@`
}

//nolint:govet // participle grammar tags are not standard struct tags
type turtleIRI struct {
	Ref   string `  @IRIRef`
	PName string `| @PName`
}

// turtleNode covers subjects and objects; literals are rejected in
// subject position after parsing.
//
//nolint:govet // participle grammar tags are not standard struct tags
type turtleNode struct {
	IRI        *turtleIRI     `  @@`
	Blank      string         `| @BlankNode`
	PropList   *blankPropList `| @@`
	Collection *collection    `| @@`
	Literal    *turtleLiteral `| @@`
}

//nolint:govet // participle grammar tags are not standard struct tags
type blankPropList struct {
	Predicates []*predicateObjects `"[" ( @@ ( ";" @@? )* )? "]"`
}

//nolint:govet // participle grammar tags are not standard struct tags
type collection struct {
	Items []*turtleNode `"(" @@* ")"`
}

//nolint:govet // participle grammar tags are not standard struct tags
type turtleLiteral struct {
	Quoted  *quotedLiteral `  @@`
	Number  string         `| @Number`
	Boolean string         `| @("true" | "false")`
}

//nolint:govet // participle grammar tags are not standard struct tags
type quotedLiteral struct {
	Value  string         `@(LongString | LongSingle | String | SingleString)`
	Suffix *literalSuffix `@@?`
}

//nolint:govet // participle grammar tags are not standard struct tags
type literalSuffix struct {
	Lang     string     `  @LangTag`
	Datatype *turtleIRI `| "^^" @@`
}
