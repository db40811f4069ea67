package notion

var (
	BuildReportBlocks = buildReportBlocks
	ReportTitle       = reportTitle
	CallLine          = callLine
)
