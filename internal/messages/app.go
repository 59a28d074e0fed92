package messages

// Application context messages.
const (
	AppRootRequired       = "application root is required"
	AppResolveSettingsFmt = "resolve settings path %s: %w"
	AppResolveStateFmt    = "resolve state path %s: %w"
	AppReadSettingsFmt    = "read settings %s: %w"
	AppDecodeSettingsFmt  = "decode settings %s: %w"
	AppEncodeSettingsFmt  = "encode settings %s: %w"
	AppWriteSettingsFmt   = "write settings %s: %w"
)
