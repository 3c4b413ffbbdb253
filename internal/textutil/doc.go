// Package textutil holds small string helpers shared by the export and CLI
// code: filename sanitization for artifacts written to disk and a generic
// conditional for picking between labels.
package textutil
