package slack

var (
	BuildDigestBlocks = buildDigestBlocks
	DigestText        = digestText
)
