package typebuild

// CallingConvention carries the catalog's calling-convention code. The named
// constants cover the conventions the engine models directly;
// CustomCallingConvention is the escape for anything else.
type CallingConvention uint32

const (
	CCUnknown  CallingConvention = 0x10
	CCCdecl    CallingConvention = 0x30
	CCStdcall  CallingConvention = 0x50
	CCPascal   CallingConvention = 0x60
	CCFastcall CallingConvention = 0x70
	CCThiscall CallingConvention = 0x80
	CCSwift    CallingConvention = 0x90
	CCGolang   CallingConvention = 0xB0
)

// CustomCallingConvention wraps a raw engine code not covered by the named
// constants.
func CustomCallingConvention(code uint32) CallingConvention {
	return CallingConvention(code)
}

func (cc CallingConvention) code() uint32 {
	return uint32(cc)
}

func (cc CallingConvention) String() string {
	switch cc {
	case CCUnknown:
		return "unknown"
	case CCCdecl:
		return "cdecl"
	case CCStdcall:
		return "stdcall"
	case CCPascal:
		return "pascal"
	case CCFastcall:
		return "fastcall"
	case CCThiscall:
		return "thiscall"
	case CCSwift:
		return "swift"
	case CCGolang:
		return "golang"
	default:
		return "custom"
	}
}
