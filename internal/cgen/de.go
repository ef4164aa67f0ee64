package cgen

import (
	"fmt"
	"strings"

	"github.com/roach88/cjsongen/internal/node"
	"github.com/roach88/cjsongen/internal/schema"
)

func (g *gen) deFnName(n node.Node) string {
	switch v := n.(type) {
	case *node.StructNode:
		return g.idx.FuncName(v.Key) + "_from_json"
	case *node.ArrayNode:
		return g.idx.FuncName(v.Key) + "_from_json_array"
	case *node.PrimitiveNode:
		switch v.Kind {
		case schema.KindStr:
			return "de_ctx_deserialize_str"
		case schema.KindInt:
			return "de_ctx_deserialize_int"
		case schema.KindBool:
			return "de_ctx_deserialize_bool"
		}
	}
	panic(&node.Fault{Op: "de", Message: fmt.Sprintf("no deserializer for %T", n)})
}

func (g *gen) destroyFnName(n node.Node) string {
	switch v := n.(type) {
	case *node.StructNode:
		return g.idx.FuncName(v.Key) + "_destroy"
	case *node.ArrayNode:
		return g.idx.FuncName(v.Key) + "_destroy_array"
	default:
		panic(&node.Fault{Op: "de", Message: fmt.Sprintf("no destructor for %T", n)})
	}
}

func (g *gen) deSignature(n node.Node) string {
	switch v := n.(type) {
	case *node.StructNode:
		return fmt.Sprintf("DeCtxResult %s(DeCtx* ctx, %s* model)", g.deFnName(v), g.idx.TypeName(v.Key))
	case *node.ArrayNode:
		return fmt.Sprintf("DeCtxResult %s(DeCtx* ctx, %s** model, size_t* size)", g.deFnName(v), g.elemType(v))
	default:
		panic(&node.Fault{Op: "de", Message: fmt.Sprintf("no deserializer for %T", n)})
	}
}

func (g *gen) destroySignature(n node.Node) string {
	switch v := n.(type) {
	case *node.StructNode:
		return fmt.Sprintf("void %s(%s* model)", g.destroyFnName(v), g.idx.TypeName(v.Key))
	case *node.ArrayNode:
		return fmt.Sprintf("void %s(%s* model, size_t size)", g.destroyFnName(v), g.elemType(v))
	default:
		panic(&node.Fault{Op: "de", Message: fmt.Sprintf("no destructor for %T", n)})
	}
}

func (g *gen) deserializerDefs() string {
	var b strings.Builder
	nodes := g.complexNodes()
	for _, n := range nodes {
		b.WriteString(g.deSignature(n))
		b.WriteString(";\n")
	}
	for _, n := range nodes {
		b.WriteString(g.destroySignature(n))
		b.WriteString(";\n")
	}
	return b.String()
}

func (g *gen) deserializerImpls() string {
	var outs []*Output
	for _, n := range g.complexNodes() {
		switch v := n.(type) {
		case *node.StructNode:
			outs = append(outs, g.structDestroyer(v), g.structDeserializer(v))
		case *node.ArrayNode:
			outs = append(outs, g.arrayDestroyer(v), g.arrayDeserializer(v))
		}
	}
	return joinOutputs(outs)
}

// destroyValue emits the statement releasing a value of n stored in expr,
// or nothing when n owns no memory. sizeExpr is used for arrays.
func (g *gen) destroyValue(out *Output, n node.Node, expr, sizeExpr string) {
	switch v := n.(type) {
	case *node.StructNode:
		out.Pushf("%s(&%s);", g.destroyFnName(v), expr)
	case *node.ArrayNode:
		out.Pushf("%s(%s, %s);", g.destroyFnName(v), expr, sizeExpr)
	case *node.PrimitiveNode:
		if v.Kind == schema.KindStr {
			out.Pushf("free(%s);", expr)
		}
	}
}

func (g *gen) structDestroyer(s *node.StructNode) *Output {
	out := g.out()
	out.Begin(g.destroySignature(s) + " {")
	owned := 0
	for _, id := range s.Fields {
		f := g.idx.Get(id)
		if !node.OwnsMemory(f) {
			continue
		}
		owned++
		name := g.idx.MemberName(id)
		g.destroyValue(out, f, "model->"+name, "model->"+name+"_size")
	}
	if owned == 0 {
		out.Push("(void)model;")
	}
	out.Close("}")
	return out
}

func (g *gen) arrayDestroyer(a *node.ArrayNode) *Output {
	data := g.idx.Get(a.Data)
	out := g.out()
	out.Begin(g.destroySignature(a) + " {")
	out.Begin("if (model == NULL) {")
	out.Push("return;")
	out.Close("}")
	if node.OwnsMemory(data) {
		out.Begin("for (size_t i = 0; i < size; ++i) {")
		g.destroyValue(out, data, "model[i]", "")
		out.Close("}")
	} else {
		out.Push("(void)size;")
	}
	out.Push("free(model);")
	out.Close("}")
	return out
}

// returnIfNotOk returns straight away: nothing has been staged yet.
func returnIfNotOk(out *Output) {
	out.Begin("if (res != DeCtxResult_Ok) {")
	out.Push("return res;")
	out.Close("}")
}

// dropIfNotOk routes a failure to the single cleanup label.
func dropIfNotOk(out *Output) {
	out.Begin("if (res != DeCtxResult_Ok) {")
	out.Push("goto drop;")
	out.Close("}")
}

func (g *gen) stagingDecl(id node.ID) []string {
	name := "_" + g.idx.MemberName(id)
	switch v := g.idx.Get(id).(type) {
	case *node.StructNode:
		return []string{fmt.Sprintf("%s %s = { 0 };", g.idx.TypeName(id), name)}
	case *node.ArrayNode:
		return []string{
			fmt.Sprintf("%s* %s = NULL;", g.elemType(v), name),
			fmt.Sprintf("size_t %s_size = 0;", name),
		}
	case *node.PrimitiveNode:
		switch v.Kind {
		case schema.KindStr:
			return []string{fmt.Sprintf("char* %s = NULL;", name)}
		case schema.KindInt:
			return []string{fmt.Sprintf("int64_t %s = 0;", name)}
		case schema.KindBool:
			return []string{fmt.Sprintf("bool %s = false;", name)}
		}
	}
	panic(&node.Fault{Op: "de", Message: fmt.Sprintf("cannot stage %s", g.idx.Path(id))})
}

// resetStaged clears a staged value after its destructor ran so a failed
// re-parse leaves nothing to double free.
func (g *gen) resetStaged(out *Output, id node.ID) {
	name := "_" + g.idx.MemberName(id)
	switch v := g.idx.Get(id).(type) {
	case *node.StructNode:
		out.Pushf("%s = (%s){ 0 };", name, g.idx.TypeName(v.Key))
	case *node.ArrayNode:
		out.Pushf("%s = NULL;", name)
		out.Pushf("%s_size = 0;", name)
	case *node.PrimitiveNode:
		out.Pushf("%s = NULL;", name)
	}
}

func (g *gen) parseCall(id node.ID) string {
	name := "_" + g.idx.MemberName(id)
	n := g.idx.Get(id)
	switch n.(type) {
	case *node.StructNode:
		return fmt.Sprintf("%s(ctx, &%s)", g.deFnName(n), name)
	case *node.ArrayNode:
		return fmt.Sprintf("%s(ctx, &%s, &%s_size)", g.deFnName(n), name, name)
	default:
		return fmt.Sprintf(`%s(ctx, &%s, "%s")`, g.deFnName(n), name, cString(g.idx.Path(id)))
	}
}

func (g *gen) structDeserializer(s *node.StructNode) *Output {
	path := cString(g.idx.Path(s.Key))
	count := len(s.Fields)

	out := g.out()
	out.Begin(g.deSignature(s) + " {")
	out.Push("DeCtxResult res;")
	out.Pushf(`res = de_ctx_expect_char(ctx, '{', "%s");`, path)
	returnIfNotOk(out)
	out.Push("ctx->idx += 1;")
	out.Blank()

	if count > 0 {
		for _, id := range s.Fields {
			for _, decl := range g.stagingDecl(id) {
				out.Push(decl)
			}
		}
		out.Pushf("bool found_fields[%d] = { false };", count)
	}
	out.Push("char* key = NULL;")
	out.Blank()

	out.Pushf(`res = de_ctx_expect_not_done(ctx, "%s");`, path)
	dropIfNotOk(out)
	out.Push("bool done = ctx->input[ctx->idx] == '}';")
	out.Begin("if (done) {")
	out.Push("ctx->idx += 1;")
	out.Close("}")

	out.Begin("while (!done) {")
	out.Pushf(`res = de_ctx_deserialize_str(ctx, &key, "%s");`, path)
	dropIfNotOk(out)
	out.Pushf(`res = de_ctx_expect_char(ctx, ':', "%s");`, path)
	dropIfNotOk(out)
	out.Push("ctx->idx += 1;")

	for i, id := range s.Fields {
		cond := fmt.Sprintf(`if (strcmp(key, "%s") == 0) {`, cString(g.idx.JSONKey(id)))
		if i == 0 {
			out.Begin(cond)
		} else {
			out.CloseAndBegin("} else " + cond)
		}
		f := g.idx.Get(id)
		if node.OwnsMemory(f) {
			name := "_" + g.idx.MemberName(id)
			out.Beginf("if (found_fields[%d]) {", i)
			g.destroyValue(out, f, name, name+"_size")
			g.resetStaged(out, id)
			out.Close("}")
		}
		out.Pushf("res = %s;", g.parseCall(id))
		out.Pushf("found_fields[%d] = res == DeCtxResult_Ok;", i)
	}
	if count > 0 {
		out.CloseAndBegin("} else {")
	} else {
		out.Begin("{")
	}
	out.Push(`snprintf(ctx->error, DE_CTX_ERROR_SIZE, "got invalid key '%s'", key);`)
	out.Push("res = DeCtxResult_BadInput;")
	out.Close("}")
	out.Push("free(key);")
	out.Push("key = NULL;")
	dropIfNotOk(out)

	out.Pushf(`res = de_ctx_expect_not_done(ctx, "%s");`, path)
	dropIfNotOk(out)
	out.Begin("if (ctx->input[ctx->idx] == ',') {")
	out.Push("ctx->idx += 1;")
	out.Push("continue;")
	out.Close("}")
	out.Pushf(`res = de_ctx_expect_char(ctx, '}', "%s");`, path)
	dropIfNotOk(out)
	out.Push("ctx->idx += 1;")
	out.Push("done = true;")
	out.Close("}")

	if count > 0 {
		out.Blank()
		out.Beginf("for (size_t i = 0; i < %d; ++i) {", count)
		out.Begin("if (!found_fields[i]) {")
		out.Push(`snprintf(ctx->error, DE_CTX_ERROR_SIZE, "missing fields");`)
		out.Push("res = DeCtxResult_BadInput;")
		out.Push("goto drop;")
		out.Close("}")
		out.Close("}")
	}

	out.Blank()
	if count == 0 {
		out.Push("(void)model;")
	}
	for _, id := range s.Fields {
		name := g.idx.MemberName(id)
		out.Pushf("model->%s = _%s;", name, name)
		if _, isArray := g.idx.Get(id).(*node.ArrayNode); isArray {
			out.Pushf("model->%s_size = _%s_size;", name, name)
		}
	}
	out.Push("return DeCtxResult_Ok;")
	out.Blank()

	out.Label("drop")
	out.Push("assert(res != DeCtxResult_Ok);")
	out.Push("free(key);")
	for i, id := range s.Fields {
		f := g.idx.Get(id)
		if !node.OwnsMemory(f) {
			continue
		}
		name := "_" + g.idx.MemberName(id)
		out.Beginf("if (found_fields[%d]) {", i)
		g.destroyValue(out, f, name, name+"_size")
		out.Close("}")
	}
	out.Push("return res;")
	out.Close("}")
	return out
}

func (g *gen) arrayDeserializer(a *node.ArrayNode) *Output {
	path := cString(g.idx.Path(a.Key))
	data := g.idx.Get(a.Data)
	elem := g.elemType(a)

	var parse string
	switch data.(type) {
	case *node.StructNode:
		parse = fmt.Sprintf("%s(ctx, &data[count])", g.deFnName(data))
	case *node.PrimitiveNode:
		parse = fmt.Sprintf(`%s(ctx, &data[count], "%s")`, g.deFnName(data), path)
	default:
		panic(&node.Fault{Op: "de", Message: fmt.Sprintf("unsupported array element %T at %s", data, g.idx.Path(a.Key))})
	}

	out := g.out()
	out.Begin(g.deSignature(a) + " {")
	out.Push("DeCtxResult res;")
	out.Pushf(`res = de_ctx_expect_char(ctx, '[', "%s");`, path)
	returnIfNotOk(out)
	out.Push("ctx->idx += 1;")
	out.Pushf(`res = de_ctx_expect_not_done(ctx, "%s");`, path)
	returnIfNotOk(out)
	out.Begin("if (ctx->input[ctx->idx] == ']') {")
	out.Push("ctx->idx += 1;")
	out.Push("*model = NULL;")
	out.Push("*size = 0;")
	out.Push("return DeCtxResult_Ok;")
	out.Close("}")
	out.Blank()

	out.Pushf("size_t allocated = %d;", g.opts.InitialCapacity)
	out.Push("size_t count = 0;")
	out.Pushf("%s* data = malloc(sizeof(%s) * allocated);", elem, elem)
	out.Begin("if (data == NULL) {")
	out.Pushf(`snprintf(ctx->error, DE_CTX_ERROR_SIZE, "out of memory while parsing '%%s'", "%s");`, path)
	out.Push("return DeCtxResult_BadInput;")
	out.Close("}")

	out.Begin("while (true) {")
	out.Begin("if (count >= allocated) {")
	out.Push("allocated *= 2;")
	out.Pushf("%s* grown = realloc(data, sizeof(%s) * allocated);", elem, elem)
	out.Begin("if (grown == NULL) {")
	out.Pushf(`snprintf(ctx->error, DE_CTX_ERROR_SIZE, "out of memory while parsing '%%s'", "%s");`, path)
	out.Push("res = DeCtxResult_BadInput;")
	out.Push("goto drop;")
	out.Close("}")
	out.Push("data = grown;")
	out.Close("}")
	out.Pushf("res = %s;", parse)
	dropIfNotOk(out)
	out.Push("count += 1;")
	out.Pushf(`res = de_ctx_expect_not_done(ctx, "%s");`, path)
	dropIfNotOk(out)
	out.Begin("if (ctx->input[ctx->idx] == ']') {")
	out.Push("ctx->idx += 1;")
	out.Push("break;")
	out.Close("}")
	out.Pushf(`res = de_ctx_expect_char(ctx, ',', "%s");`, path)
	dropIfNotOk(out)
	out.Push("ctx->idx += 1;")
	out.Close("}")
	out.Blank()

	out.Push("*model = data;")
	out.Push("*size = count;")
	out.Push("return DeCtxResult_Ok;")
	out.Blank()

	out.Label("drop")
	out.Push("assert(res != DeCtxResult_Ok);")
	out.Pushf("%s(data, count);", g.destroyFnName(a))
	out.Push("return res;")
	out.Close("}")
	return out
}
