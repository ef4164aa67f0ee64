// Package cgen emits C source for a node.Index: struct typedefs, JSON
// serializers, JSON deserializers, and destructors.
//
// Generators are pure functions of the index and Options. Each returns
// plain text; Unit bundles the sections and can assemble a header/source
// pair. The deserializers target the cursor API of the de.h runtime
// prelude (DeCtx, DeCtxResult, de_ctx_*), which is supplied by the caller.
//
// Ownership contract of generated code:
//   - *_to_json returns a heap string the caller frees
//   - *_from_json writes *model only on success; on failure everything it
//     allocated has been released
//   - *_destroy releases memory reachable from a value; *_destroy_array
//     accepts a NULL buffer
//
// Contract of the de.h prelude:
//
//	DE_CTX_ERROR_SIZE     size of ctx->error; messages are written with snprintf
//	DeCtx                 has at least input (const char*), idx (size_t) and
//	                      error (char[DE_CTX_ERROR_SIZE] or a buffer that large)
//	DeCtxResult           DeCtxResult_Ok or DeCtxResult_BadInput
//
//	de_ctx_expect_not_done(ctx, parsing)
//	    Ok when idx is before the end of input. Does not move idx.
//	de_ctx_expect_char(ctx, c, parsing)
//	    Ok when input[idx] == c. Does not move idx; the caller steps over c.
//	de_ctx_deserialize_str(ctx, char** out, parsing)
//	    Reads a quoted string at idx and leaves idx after the closing quote.
//	    Accepts the escapes \" \\ \/ \b \f \n \r \t and \uXXXX, joining
//	    surrogate pairs and writing UTF-8. Rejects \u0000, unpaired
//	    surrogates and raw bytes below 0x20. On success *out is a new
//	    NUL-terminated heap string; on failure nothing stays allocated and
//	    *out is untouched.
//	de_ctx_deserialize_int(ctx, int64_t* out, parsing)
//	    Reads -?(0|[1-9][0-9]*) into an int64_t, so 0 and negative numbers
//	    are accepted. Leading zeros and values outside int64_t are bad input.
//	de_ctx_deserialize_bool(ctx, bool* out, parsing)
//	    Reads the literal true or false.
//
// None of the helpers skip whitespace. On bad input each writes a message
// naming parsing into ctx->error. The reference implementation the tests
// compile against is jsonmodel's testdata/prelude, and the package
// jsonmodel reproduces the same contract in Go.
package cgen
