// Package matching implements the request matching algorithms used by the
// pattern registry.
//
// A matcher matches only when every configured criterion succeeds, covering:
//
//   - Method matching: HTTP method verification
//   - URL matching: exact URLs, prefixes, regex patterns, and doublestar globs
//   - Header matching: exact values and wildcard patterns
//   - Query parameter matching: key-value verification
//   - Body matching: exact, contains, regex patterns, and JSONPath expressions
//   - Expression matching: compiled expr-lang predicates over the request
//
// Unset criteria are ignored, so an empty matcher matches every request.
// There is no ranking between patterns here; priority between candidates is
// the registry's concern.
package matching
