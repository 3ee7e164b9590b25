// Package value implements the typed value model: the sum type of shapes a
// tape cell run can hold (U32, I32, Bool, Char, FString, IString, Array,
// Empty), their canonical cell encodings, and their widths.
//
// Go has no sum types, so Value is a tagged struct: Kind selects which of
// the payload fields is meaningful, mirroring how a Rust enum's variants
// would be matched. Callers that need "shape only" comparisons (ignoring
// payload, as the control-structure compiler's shape-preservation check
// does) should compare Kind directly or use SameShape.
package value
