// Package plan turns record descriptors into implementation blocks of
// accessor methods.
//
// Pipeline, per record:
//  1. Validate the record shape (enum, union, tuple-like and unit records are rejected)
//  2. Parse the //gusket container lines into ContainerDefaults
//  3. For each field, in declaration order:
//     - parse the gusket struct tag into FieldOptions
//     - resolve container defaults and field options into a ResolvedPolicy
//     - synthesize zero, one or three MethodDefinitions
//  4. Collect the methods into one ImplBlock carrying the type parameters
//
// Every step is a pure function of its inputs; nothing is shared between
// records, so callers may process records concurrently.
package plan
