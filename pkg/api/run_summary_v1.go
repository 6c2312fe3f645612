package api

// RunSummaryV1 is the stable schema for one run's final counters, the
// structured counterpart of the human-readable progress/"Assembly
// complete" lines spec section 6 describes.
type RunSummaryV1 struct {
	RunID           string  `json:"run_id"`
	ReadsProcessed  uint64  `json:"reads_processed"`
	ReadsExtended   uint64  `json:"reads_extended"`
	BasesAssembled  uint64  `json:"bases_assembled"`
	TotalContigs    uint64  `json:"total_contigs"`
	PercentExtended float64 `json:"percent_extended"`
}
