package cgen

import (
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/cjsongen/internal/schema"
	"github.com/roach88/cjsongen/internal/testutil"
)

func golden(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func TestGenerate_ItemGolden(t *testing.T) {
	u := Generate(testutil.MustIndex(t, testutil.ItemSchema()), DefaultOptions())

	g := golden(t)
	g.Assert(t, "item_header", []byte(u.Header(HeaderGuard("item"))))
	g.Assert(t, "item_source", []byte(u.Source("item.h")))
}

func TestGenerate_ItemSections(t *testing.T) {
	u := Generate(testutil.MustIndex(t, testutil.ItemSchema()), DefaultOptions())

	assert.Equal(t, "typedef struct {\n    int64_t id;\n    char** tags;\n    size_t tags_size;\n} Item;\n", u.Types)
	assert.Equal(t,
		"char* item_tags_to_json_array(char* const* model, size_t size);\n"+
			"char* item_to_json(const Item* model);\n",
		u.SerDefs)
	assert.Equal(t,
		"DeCtxResult item_tags_from_json_array(DeCtx* ctx, char*** model, size_t* size);\n"+
			"DeCtxResult item_from_json(DeCtx* ctx, Item* model);\n"+
			"void item_tags_destroy_array(char** model, size_t size);\n"+
			"void item_destroy(Item* model);\n",
		u.DeDefs)
	assert.Contains(t, u.SerImpls, `const char* format = "{\"id\":%" PRId64 ",\"tags\":%s}";`)
	assert.Equal(t, "item", u.Name)
	assert.Equal(t, "Item", u.TypeName)
}

func TestGenerate_TextOrder(t *testing.T) {
	u := Generate(testutil.MustIndex(t, testutil.ItemSchema()), DefaultOptions())
	text := u.Text()

	types := strings.Index(text, "typedef struct {")
	serDef := strings.Index(text, "char* item_to_json(const Item* model);")
	serImpl := strings.Index(text, "char* item_to_json(const Item* model) {")
	deDef := strings.Index(text, "DeCtxResult item_from_json(DeCtx* ctx, Item* model);")
	deImpl := strings.Index(text, "DeCtxResult item_from_json(DeCtx* ctx, Item* model) {")
	for _, i := range []int{types, serDef, serImpl, deDef, deImpl} {
		require.GreaterOrEqual(t, i, 0)
	}
	assert.Less(t, types, serDef)
	assert.Less(t, serDef, serImpl)
	assert.Less(t, serImpl, deDef)
	assert.Less(t, deDef, deImpl)
}

func TestGenerate_SelectedSections(t *testing.T) {
	opts := DefaultOptions()
	opts.Sections = []Section{SectionTypes}
	u := Generate(testutil.MustIndex(t, testutil.ItemSchema()), opts)

	assert.NotEmpty(t, u.Types)
	assert.Empty(t, u.SerDefs)
	assert.Empty(t, u.SerImpls)
	assert.Empty(t, u.DeDefs)
	assert.Empty(t, u.DeImpls)
	assert.NotContains(t, u.Header("ITEM_H"), `#include "de.h"`)
}

func TestGenerate_OrderTypedefs(t *testing.T) {
	u := Generate(testutil.MustIndex(t, testutil.OrderSchema()), DefaultOptions())

	want := "typedef struct {\n    char* name;\n    bool vip;\n} OrderCustomer;\n" +
		"\n" +
		"typedef struct {\n    char* sku;\n    int64_t qty;\n} OrderLines;\n" +
		"\n" +
		"typedef struct {\n" +
		"    char* id;\n" +
		"    OrderCustomer customer;\n" +
		"    OrderLines* lines;\n" +
		"    size_t lines_size;\n" +
		"    bool* flags;\n" +
		"    size_t flags_size;\n" +
		"} Order;\n"
	assert.Equal(t, want, u.Types)
}

func TestGenerate_OrderSerializer(t *testing.T) {
	u := Generate(testutil.MustIndex(t, testutil.OrderSchema()), DefaultOptions())

	assert.Equal(t,
		"char* order_customer_to_json(const OrderCustomer* model);\n"+
			"char* order_lines_to_json(const OrderLines* model);\n"+
			"char* order_lines_to_json_array(const OrderLines* model, size_t size);\n"+
			"char* order_flags_to_json_array(const bool* model, size_t size);\n"+
			"char* order_to_json(const Order* model);\n",
		u.SerDefs)

	impls := u.SerImpls
	assert.Contains(t, impls, `const char* format = "{\"name\":\"%s\",\"vip\":%s}";`)
	assert.Contains(t, impls, `snprintf(NULL, 0, format, model->name, model->vip ? "true" : "false");`)
	assert.Contains(t, impls, `const char* format = "{\"sku\":\"%s\",\"qty\":%" PRId64 "}";`)
	assert.Contains(t, impls, `const char* format = "{\"id\":\"%s\",\"customer\":%s,\"lines\":%s,\"flags\":%s}";`)
	assert.Contains(t, impls, "char* _customer = order_customer_to_json(&model->customer);")
	assert.Contains(t, impls, "char* _lines = order_lines_to_json_array(model->lines, model->lines_size);")
	assert.Contains(t, impls, "free(_customer);\n    free(_lines);\n    free(_flags);\n")

	// struct elements are serialized through a temporary
	assert.Contains(t, impls, "char* value = order_lines_to_json(&model[0]);")
	assert.Contains(t, impls, `snprintf(NULL, 0, ",%s", value);`)
	// primitive elements are formatted in place
	assert.Contains(t, impls, `snprintf(NULL, 0, "[%s", model[0] ? "true" : "false");`)
}

func TestGenerate_OrderDeserializer(t *testing.T) {
	u := Generate(testutil.MustIndex(t, testutil.OrderSchema()), DefaultOptions())
	impls := u.DeImpls

	// staging locals are zero initialized
	assert.Contains(t, impls, "char* _id = NULL;")
	assert.Contains(t, impls, "OrderCustomer _customer = { 0 };")
	assert.Contains(t, impls, "OrderLines* _lines = NULL;")
	assert.Contains(t, impls, "size_t _lines_size = 0;")
	assert.Contains(t, impls, "bool* _flags = NULL;")
	assert.Contains(t, impls, "bool found_fields[4] = { false };")

	// duplicate keys release the earlier value first
	assert.Contains(t, impls,
		"if (found_fields[1]) {\n"+
			"                order_customer_destroy(&_customer);\n"+
			"                _customer = (OrderCustomer){ 0 };\n"+
			"            }\n"+
			"            res = order_customer_from_json(ctx, &_customer);\n")

	// cleanup releases exactly the fields that were parsed
	assert.Contains(t, impls,
		"drop:\n"+
			"    assert(res != DeCtxResult_Ok);\n"+
			"    free(key);\n"+
			"    if (found_fields[0]) {\n"+
			"        free(_id);\n"+
			"    }\n"+
			"    if (found_fields[1]) {\n"+
			"        order_customer_destroy(&_customer);\n"+
			"    }\n"+
			"    if (found_fields[2]) {\n"+
			"        order_lines_destroy_array(_lines, _lines_size);\n"+
			"    }\n"+
			"    if (found_fields[3]) {\n"+
			"        order_flags_destroy_array(_flags, _flags_size);\n"+
			"    }\n"+
			"    return res;\n")

	assert.Contains(t, impls, "res = order_lines_from_json(ctx, &data[count]);")
	assert.Contains(t, impls, `res = de_ctx_deserialize_bool(ctx, &data[count], "order.flags");`)
	assert.Contains(t, impls, `res = de_ctx_deserialize_bool(ctx, &_vip, "order.customer.vip");`)
}

func TestGenerate_OrderDestructors(t *testing.T) {
	u := Generate(testutil.MustIndex(t, testutil.OrderSchema()), DefaultOptions())
	impls := u.DeImpls

	assert.Contains(t, impls,
		"void order_customer_destroy(OrderCustomer* model) {\n"+
			"    free(model->name);\n"+
			"}\n")
	assert.Contains(t, impls,
		"void order_lines_destroy_array(OrderLines* model, size_t size) {\n"+
			"    if (model == NULL) {\n"+
			"        return;\n"+
			"    }\n"+
			"    for (size_t i = 0; i < size; ++i) {\n"+
			"        order_lines_destroy(&model[i]);\n"+
			"    }\n"+
			"    free(model);\n"+
			"}\n")
	assert.Contains(t, impls,
		"void order_flags_destroy_array(bool* model, size_t size) {\n"+
			"    if (model == NULL) {\n"+
			"        return;\n"+
			"    }\n"+
			"    (void)size;\n"+
			"    free(model);\n"+
			"}\n")
	assert.Contains(t, impls,
		"void order_destroy(Order* model) {\n"+
			"    free(model->id);\n"+
			"    order_customer_destroy(&model->customer);\n"+
			"    order_lines_destroy_array(model->lines, model->lines_size);\n"+
			"    order_flags_destroy_array(model->flags, model->flags_size);\n"+
			"}\n")
}

func TestGenerate_EmptyStruct(t *testing.T) {
	u := Generate(testutil.MustIndex(t, testutil.EmptySchema()), DefaultOptions())

	assert.Equal(t, "typedef struct {\n    char _empty;\n} Empty;\n", u.Types)
	assert.Contains(t, u.SerImpls, "(void)model;\n    char* buffer = malloc(3);\n    memcpy(buffer, \"{}\", 3);\n")
	assert.NotContains(t, u.DeImpls, "found_fields")
	assert.Contains(t, u.DeImpls, "void empty_destroy(Empty* model) {\n    (void)model;\n}\n")
	assert.NotContains(t, u.DeImpls, "strcmp")
}

func TestGenerate_InitialCapacity(t *testing.T) {
	opts := DefaultOptions()
	opts.InitialCapacity = 2
	u := Generate(testutil.MustIndex(t, testutil.ItemSchema()), opts)
	assert.Contains(t, u.DeImpls, "size_t allocated = 2;")

	u = Generate(testutil.MustIndex(t, testutil.ItemSchema()), Options{})
	assert.Contains(t, u.DeImpls, "size_t allocated = 8;")
}

func TestGenerate_EscapesKeys(t *testing.T) {
	u := Generate(testutil.MustIndex(t, schema.NewStruct("rate",
		schema.F("pct%", schema.Int()),
	)), DefaultOptions())

	assert.Contains(t, u.Types, "int64_t pct_;")
	assert.Contains(t, u.SerImpls, `"{\"pct%%\":%" PRId64 "}"`)
	assert.Contains(t, u.DeImpls, `strcmp(key, "pct%") == 0`)
}

func TestHeaderGuard(t *testing.T) {
	assert.Equal(t, "ITEM_H", HeaderGuard("item"))
	assert.Equal(t, "USER_PROFILE_H", HeaderGuard("userProfile"))
}

func TestParseSection(t *testing.T) {
	sec, err := ParseSection(" de ")
	require.NoError(t, err)
	assert.Equal(t, SectionDe, sec)

	_, err = ParseSection("bogus")
	assert.Error(t, err)
}

func TestOptions_Settings(t *testing.T) {
	opts := Options{Sections: []Section{SectionDe, SectionTypes}}
	assert.Equal(t, map[string]any{
		"initial_capacity": DefaultInitialCapacity,
		"indent_width":     DefaultIndentWidth,
		"sections":         []any{"types", "de"},
	}, opts.Settings())
}

// The presence index written after each key comparison must equal the
// field's declaration position, or the completeness check misattributes
// keys.
func TestGenerate_DispatchMatchesPresenceIndex(t *testing.T) {
	s := schema.NewStruct("wide",
		schema.F("zeta", schema.Int()),
		schema.F("alpha", schema.Str()),
		schema.F("mid", schema.ArrayOf(schema.Int())),
		schema.F("beta", schema.Object(schema.F("x", schema.Bool()))),
		schema.F("omega", schema.Bool()),
	)
	u := Generate(testutil.MustIndex(t, s), DefaultOptions())

	body := u.DeImpls[strings.Index(u.DeImpls, "DeCtxResult wide_from_json("):]
	dispatch := regexp.MustCompile(`strcmp\(key, "([^"]+)"\) == 0\) \{(?s:.*?)found_fields\[(\d+)\] = res == DeCtxResult_Ok;`)
	matches := dispatch.FindAllStringSubmatch(body, -1)
	require.Len(t, matches, len(s.Fields))
	for i, m := range matches {
		assert.Equal(t, s.Fields[i].Name, m[1], "dispatch order")
		assert.Equal(t, strconv.Itoa(i), m[2], "presence index of %s", m[1])
	}
	assert.Contains(t, body, "bool found_fields[5] = { false };")
	assert.Contains(t, body, "for (size_t i = 0; i < 5; ++i) {")
}
