// Package instrument is the anchor-based patch/unpatch engine behind
// debugpatch. It inserts temporary addDebugLog trace statements at
// pattern-identified anchor points in the PDFPane component, exactly once
// per rule, and can later remove every trace of them again: single lines
// by call shape, multi-line blocks by marker plus brace-balance scanning.
//
// The engine is deliberately not a parser. It works on literal anchors,
// regular expressions and a nesting-depth counter, which is all a
// throwaway instrumentation pass needs and keeps it reversible.
package instrument
