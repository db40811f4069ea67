package extract

// Export internal functions for testing

var BuildSystemPrompt = buildSystemPrompt

var BuildUserPrompt = buildUserPrompt

var BuildRepairPrompt = buildRepairPrompt

var BuildResponseSchema = buildResponseSchema

var ParseResponse = parseResponse

var HasHard = hasHard

var BestSegmentRef = bestSegmentRef

var RateLimited = rateLimited
