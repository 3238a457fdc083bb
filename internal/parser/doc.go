// Package parser converts raw diagnostic tool output into inventory records.
//
// Every parser is a pure function of its input. Malformed lines and objects
// are skipped; a parser never fails, it returns whatever it could extract.
// Output order follows input order so parsing the same text twice yields
// identical lists.
//
// Records are returned without an ExecutionEnvironment; collectors tag them.
package parser
