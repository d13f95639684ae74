// Package mock defines the request patterns and response templates that the
// interception engine matches outgoing HTTP requests against.
//
// # Core Types
//
// Pattern pairs a RequestMatcher with either a ResponseTemplate or a
// pass-through directive, and carries per-pattern call statistics.
// ResponseTemplate describes a synthetic response declaratively and is
// materialized lazily, once per exchange, via Resolve.
//
// # Package Design
//
// This is a leaf package holding only data types and their validation;
// matching lives in internal/matching and resolution order in pkg/registry.
package mock
