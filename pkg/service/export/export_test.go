package export

var (
	RenderBatchSummary = renderBatchSummary
	RenderCallReport   = renderCallReport
)
