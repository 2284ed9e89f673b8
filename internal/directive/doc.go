// Package directive parses gusket directive lists.
//
// A directive list is the text of a //gusket:<list> doc line on a type or
// of a gusket:"<list>" struct tag on a field:
//
//	//gusket:all,immut,vis=unexported
//	Name string `gusket:"copy,mut"`
//
// Lists are comma separated and may end with a comma. Each entry becomes a
// typed Entry; the package knows nothing about precedence.
package directive
