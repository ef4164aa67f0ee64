package cgen

import (
	"fmt"
	"strings"

	"github.com/roach88/cjsongen/internal/node"
	"github.com/roach88/cjsongen/internal/schema"
)

func (g *gen) serFnName(n node.Node) string {
	switch n.(type) {
	case *node.StructNode:
		return g.idx.FuncName(n.ID()) + "_to_json"
	case *node.ArrayNode:
		return g.idx.FuncName(n.ID()) + "_to_json_array"
	default:
		panic(&node.Fault{Op: "ser", Message: fmt.Sprintf("no serializer for %T", n)})
	}
}

func (g *gen) serSignature(n node.Node) string {
	switch v := n.(type) {
	case *node.StructNode:
		return fmt.Sprintf("char* %s(const %s* model)", g.serFnName(v), g.idx.TypeName(v.Key))
	case *node.ArrayNode:
		return fmt.Sprintf("char* %s(%s model, size_t size)", g.serFnName(v), constPtr(g.elemType(v)))
	default:
		panic(&node.Fault{Op: "ser", Message: fmt.Sprintf("no serializer for %T", n)})
	}
}

func (g *gen) serializerDefs() string {
	var b strings.Builder
	for _, n := range g.complexNodes() {
		b.WriteString(g.serSignature(n))
		b.WriteString(";\n")
	}
	return b.String()
}

func (g *gen) serializerImpls() string {
	var outs []*Output
	for _, n := range g.complexNodes() {
		switch v := n.(type) {
		case *node.StructNode:
			outs = append(outs, g.structSerializer(v))
		case *node.ArrayNode:
			outs = append(outs, g.arraySerializer(v))
		}
	}
	return joinOutputs(outs)
}

func (g *gen) structSerializer(s *node.StructNode) *Output {
	out := g.out()
	out.Begin(g.serSignature(s) + " {")
	if len(s.Fields) == 0 {
		out.Push("(void)model;")
		out.Push("char* buffer = malloc(3);")
		out.Push(`memcpy(buffer, "{}", 3);`)
		out.Push("return buffer;")
		out.Close("}")
		return out
	}

	f := &format{}
	f.text("{")
	args := make([]string, 0, len(s.Fields))
	var children []string
	for i, id := range s.Fields {
		if i > 0 {
			f.text(",")
		}
		f.text(`\"` + printfSafe(cString(JSONEscape(g.idx.JSONKey(id)))) + `\":`)
		field := g.idx.Get(id)
		placeholder(f, field)

		name := g.idx.MemberName(id)
		switch v := field.(type) {
		case *node.StructNode:
			children = append(children, fmt.Sprintf("char* _%s = %s(&model->%s);", name, g.serFnName(v), name))
			args = append(args, "_"+name)
		case *node.ArrayNode:
			children = append(children, fmt.Sprintf("char* _%s = %s(model->%s, model->%s_size);", name, g.serFnName(v), name, name))
			args = append(args, "_"+name)
		case *node.PrimitiveNode:
			args = append(args, primitiveArg(v.Kind, "model->"+name))
		}
	}
	f.text("}")

	spread := strings.Join(args, ", ")
	out.Pushf("const char* format = %s;", f)
	for _, c := range children {
		out.Push(c)
	}
	out.Pushf("size_t size = (size_t)snprintf(NULL, 0, format, %s);", spread)
	out.Push("char* buffer = malloc(size + 1);")
	out.Pushf("snprintf(buffer, size + 1, format, %s);", spread)
	for _, id := range s.Fields {
		if _, primitive := g.idx.Get(id).(*node.PrimitiveNode); !primitive {
			out.Pushf("free(_%s);", g.idx.MemberName(id))
		}
	}
	out.Push("return buffer;")
	out.Close("}")
	return out
}

func primitiveArg(k schema.PrimitiveKind, expr string) string {
	if k == schema.KindBool {
		return expr + ` ? "true" : "false"`
	}
	return expr
}

func (g *gen) arraySerializer(a *node.ArrayNode) *Output {
	data := g.idx.Get(a.Data)

	first := (&format{}).text("[")
	placeholder(first, data)
	next := (&format{}).text(",")
	placeholder(next, data)

	_, primitive := data.(*node.PrimitiveNode)
	value := func(i string) string {
		if p, ok := data.(*node.PrimitiveNode); ok {
			return primitiveArg(p.Kind, "model["+i+"]")
		}
		return "value"
	}

	out := g.out()
	out.Begin(g.serSignature(a) + " {")
	out.Begin("if (size == 0) {")
	out.Push("char* buffer = malloc(3);")
	out.Push(`memcpy(buffer, "[]", 3);`)
	out.Push("return buffer;")
	out.Close("}")

	if !primitive {
		out.Pushf("char* value = %s(&model[0]);", g.serFnName(data))
	}
	out.Pushf("size_t buffer_size = (size_t)snprintf(NULL, 0, %s, %s);", first, value("0"))
	out.Push("char* buffer = malloc(buffer_size + 1);")
	out.Pushf("snprintf(buffer, buffer_size + 1, %s, %s);", first, value("0"))
	if !primitive {
		out.Push("free(value);")
	}

	out.Begin("for (size_t i = 1; i < size; ++i) {")
	if !primitive {
		out.Pushf("value = %s(&model[i]);", g.serFnName(data))
	}
	out.Pushf("size_t item_size = (size_t)snprintf(NULL, 0, %s, %s);", next, value("i"))
	out.Push("buffer = realloc(buffer, buffer_size + item_size + 1);")
	out.Pushf("snprintf(buffer + buffer_size, item_size + 1, %s, %s);", next, value("i"))
	out.Push("buffer_size += item_size;")
	if !primitive {
		out.Push("free(value);")
	}
	out.Close("}")

	out.Push("buffer = realloc(buffer, buffer_size + 2);")
	out.Push(`memcpy(buffer + buffer_size, "]", 2);`)
	out.Push("return buffer;")
	out.Close("}")
	return out
}
