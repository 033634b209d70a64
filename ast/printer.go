package ast

import (
	"fmt"
	"strings"
)

// Print renders doc as query text. Parsing the output yields a document equal to doc
// apart from source spans and the block-string flag of string literals.
func Print(doc *Document) string {
	var sb strings.Builder
	p := printer{sb: &sb}
	for i, def := range doc.Definitions {
		if i > 0 {
			sb.WriteString("\n")
		}
		switch def := def.(type) {
		case *OperationDefinition:
			p.operation(def)
		case *FragmentDefinition:
			p.fragment(def)
		}
	}
	return sb.String()
}

type printer struct {
	sb     *strings.Builder
	indent int
}

func (p *printer) write(s string) {
	p.sb.WriteString(s)
}

func (p *printer) line(s string) {
	p.sb.WriteString(strings.Repeat("  ", p.indent))
	p.sb.WriteString(s)
}

func (p *printer) operation(op *OperationDefinition) {
	if op.Shorthand && op.Name.Value == "" && len(op.Vars) == 0 && len(op.Directives) == 0 {
		p.selectionSet(op.Selections)
		p.write("\n")
		return
	}
	p.write(string(op.Type))
	if op.Name.Value != "" {
		p.write(" " + op.Name.Value)
	}
	if len(op.Vars) > 0 {
		p.write("(")
		for i, v := range op.Vars {
			if i > 0 {
				p.write(", ")
			}
			p.write("$" + v.Name.Value + ": " + v.Type.String())
			if v.Default != nil {
				p.write(" = ")
				p.value(v.Default)
			}
			p.directives(v.Directives)
		}
		p.write(")")
	}
	p.directives(op.Directives)
	p.write(" ")
	p.selectionSet(op.Selections)
	p.write("\n")
}

func (p *printer) fragment(f *FragmentDefinition) {
	p.write("fragment " + f.Name.Value + " on " + f.On.Value)
	p.directives(f.Directives)
	p.write(" ")
	p.selectionSet(f.Selections)
	p.write("\n")
}

func (p *printer) selectionSet(sels []Selection) {
	p.write("{\n")
	p.indent++
	for _, sel := range sels {
		switch sel := sel.(type) {
		case *Field:
			p.line("")
			if sel.Alias.Value != "" {
				p.write(sel.Alias.Value + ": ")
			}
			p.write(sel.Name.Value)
			p.arguments(sel.Arguments)
			p.directives(sel.Directives)
			if sel.Selections != nil {
				p.write(" ")
				p.selectionSet(sel.Selections)
			}
		case *FragmentSpread:
			p.line("..." + sel.Name.Value)
			p.directives(sel.Directives)
		case *InlineFragment:
			p.line("...")
			if sel.On.Value != "" {
				p.write(" on " + sel.On.Value)
			}
			p.directives(sel.Directives)
			p.write(" ")
			p.selectionSet(sel.Selections)
		}
		p.write("\n")
	}
	p.indent--
	p.line("}")
}

func (p *printer) arguments(args ArgumentList) {
	if len(args) == 0 {
		return
	}
	p.write("(")
	for i, arg := range args {
		if i > 0 {
			p.write(", ")
		}
		p.write(arg.Name.Value + ": ")
		p.value(arg.Value)
	}
	p.write(")")
}

func (p *printer) directives(dirs DirectiveList) {
	for _, d := range dirs {
		p.write(" @" + d.Name.Value)
		p.arguments(d.Arguments)
	}
}

func (p *printer) value(v InputValue) {
	switch v := v.(type) {
	case *NullValue:
		p.write("null")
	case *ScalarValue:
		if v.Kind == StringValue {
			p.write(QuoteString(v.Text))
		} else {
			p.write(v.Text)
		}
	case *EnumValue:
		p.write(v.Name)
	case *Variable:
		p.write("$" + v.Name)
	case *ListValue:
		p.write("[")
		for i, item := range v.Values {
			if i > 0 {
				p.write(", ")
			}
			p.value(item)
		}
		p.write("]")
	case *ObjectValue:
		p.write("{")
		for i, f := range v.Fields {
			if i > 0 {
				p.write(", ")
			}
			p.write(f.Name.Value + ": ")
			p.value(f.Value)
		}
		p.write("}")
	}
}

// QuoteString renders s as a string literal using only escapes the lexer accepts.
func QuoteString(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		case '\b':
			sb.WriteString(`\b`)
		case '\f':
			sb.WriteString(`\f`)
		default:
			if r < 0x20 || r == 0x7f {
				fmt.Fprintf(&sb, `\u%04x`, r)
			} else {
				sb.WriteRune(r)
			}
		}
	}
	sb.WriteByte('"')
	return sb.String()
}
