// Package finalize turns a finished session's ledger into its companion
// workbook and removes source images once the document is safely on disk.
package finalize
