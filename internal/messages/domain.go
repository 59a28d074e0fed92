package messages

// Identifier, version, extension, and constraint messages.
const (
	IdentUnknown    = "unknown identifier"
	IdentUnknownFmt = "unknown %s identifier %q"

	VersionRequired   = "version is required"
	VersionInvalidFmt = "version %q is not a valid semantic version: %w"

	ExtensionScanFailedFmt      = "scan extension directory %s: %w"
	ExtensionDuplicateKeyFmt    = "extension key %q is declared by both %s and %s"
	ExtensionReadManifestFmt    = "read extension manifest %s: %w"
	ExtensionInvalidManifestFmt = "invalid extension manifest %s: %w"

	ConstraintInvalidBoundFmt      = "invalid version bound %q in constraint %q: %w"
	ConstraintInvalidTokenFmt      = "invalid comparator %q in constraint %q"
	ConstraintEmptyRangeFmt        = "constraint %q excludes every version"
	ConstraintInvalidTargetFmt     = "invalid target version %q: %v"
	ConstraintUnparsableStrictFmt  = "extension %q declares an unparsable constraint %q: %v"
	ConstraintUnparsableWarningFmt = "extension %q declares an unparsable constraint %q, treating it as compatible: %v"
	// ConstraintViolationFmt takes key, host key, range, host key, target.
	ConstraintViolationFmt = "extension %q requires %s version %s; it is not compatible with %s version %s"
)

// Codec messages.
const (
	CodecUnsupportedTypeFmt   = "codec: unsupported value type %v"
	CodecUnsupportedMapKeyFmt = "codec: unsupported map key type %v"
	CodecDecodeFailedFmt      = "codec: decode: %w"
	CodecTrailingBytesFmt     = "codec: %d trailing bytes after document"
	CodecEmptyStream          = "codec: stream ended before a frame"
	CodecTruncatedFrameFmt    = "codec: truncated frame: %w"
	CodecFrameTooLargeFmt     = "codec: frame of %d bytes exceeds limit of %d"
	CodecWriteFrameFmt        = "codec: write frame: %w"
	CodecFieldTypeFmt         = "codec: field %q has type %T, want %s"
	CodecNotAMapFmt           = "codec: %s must be a map, got %T"
	CodecInvalidPayload       = "invalid payload"
)
