// Package vouchers loads orders and barcodes, joins them through joinstore and
// reports the result.
//
// A Repository reads both CSV sources through a RecordSource (local files or
// a storage bucket), runs the two-phase ingestion once and answers queries
// from the frozen store. An Extractor turns those answers into a models.Output
// and fans it out to the configured Writers: console summary, voucher file,
// JSON report, bucket upload and database export. The Handler exposes the same
// queries over HTTP.
package vouchers
