// Package document provides the evidence document abstraction used by the
// capture session, with a Word (.docx) implementation and an in-memory one.
//
// Geometry is expressed in EMU (English Metric Units); page settings read
// from .docx section properties are in twips and converted with TwipEMU.
package document
