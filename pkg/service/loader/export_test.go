package loader

var (
	ParseTextTranscript    = parseTextTranscript
	CompanyFromMeetingLine = companyFromMeetingLine
	RoleForLabel           = roleForLabel
)
