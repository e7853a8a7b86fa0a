package errors

import "errors"

// Codec errors indicate a record could not pass through the codec.
var (
	// ErrSerialization indicates a record cannot be converted to canonical text.
	ErrSerialization = errors.New("record cannot be serialized")

	// ErrShiftOverflow indicates a shifted code unit left the single-byte range.
	ErrShiftOverflow = errors.New("shifted character outside the single-byte range")

	// ErrDecode indicates the encoded text or its shifted content is malformed.
	ErrDecode = errors.New("encoded data cannot be decoded")
)

// Vault errors indicate issues with stored packages.
var (
	// ErrIntegrityMismatch indicates the recomputed digest differs from the stored one.
	ErrIntegrityMismatch = errors.New("data integrity check failed")

	// ErrStorageRead indicates a stored package is malformed.
	ErrStorageRead = errors.New("stored package cannot be read")

	// ErrInvalidKey indicates an empty storage key or unusable key material.
	ErrInvalidKey = errors.New("invalid key")

	// ErrKeyNotFound indicates no package is stored under the key.
	ErrKeyNotFound = errors.New("key not found")

	// ErrIndexOutOfRange indicates a key index beyond the store's length.
	ErrIndexOutOfRange = errors.New("key index out of range")
)

// Backup errors indicate issues with export and import.
var (
	// ErrExportFailed indicates a backup could not be produced or saved.
	ErrExportFailed = errors.New("backup export failed")

	// ErrImportFormat indicates the backup content is not a valid envelope.
	ErrImportFormat = errors.New("invalid backup file")

	// ErrFileNotFound indicates a specific file could not be located.
	ErrFileNotFound = errors.New("file not found")
)

// Configuration errors indicate the config file or a named component is unusable.
var (
	// ErrConfigNotFound indicates no configuration file exists yet.
	ErrConfigNotFound = errors.New("configuration not found")

	// ErrConfigExists indicates config init would overwrite an existing file.
	ErrConfigExists = errors.New("configuration already exists")

	// ErrInvalidConfig indicates the configuration is malformed or inconsistent.
	ErrInvalidConfig = errors.New("configuration is invalid")

	// ErrUnknownBackend indicates the configured storage backend does not exist.
	ErrUnknownBackend = errors.New("unknown storage backend")

	// ErrUnknownCodec indicates the configured cipher does not exist.
	ErrUnknownCodec = errors.New("unknown codec")

	// ErrUnknownDigest indicates the configured digest does not exist.
	ErrUnknownDigest = errors.New("unknown digest")

	// ErrInvalidPattern indicates a key glob pattern is malformed.
	ErrInvalidPattern = errors.New("invalid key pattern")

	// ErrInvalidDateFormat indicates a date filter is not YYYY-MM-DD.
	ErrInvalidDateFormat = errors.New("invalid date format, expected YYYY-MM-DD")
)
