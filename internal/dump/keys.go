package dump

const (
	// dump.ini
	IniFilename = "dump.ini"
	Version     = "1.0"

	DumpSectionName = "dump"
	VersionKey      = "version"
	DescriptionKey  = "description"

	ModuleSectionName = "module"
	ModuleNameKey     = "name"
	ModuleBaseKey     = "base"
	ModuleSizeKey     = "size"
	ModuleTextKey     = "text"
	ModuleDataKey     = "data"
	ModuleRDataKey    = "rdata"

	RegionSectionPrefix = "region."
	RegionAddressKey    = "address"
	RegionFileKey       = "file"
)
