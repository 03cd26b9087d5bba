// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Sources - registry, search candidates and the deny-list.
const (
	SourcesDefault    = "sources.default"
	SourcesAggregator = "sources.aggregator"
	SourcesRejected   = "sources.rejected"
)

// Search - multi-source search behaviour.
const (
	SearchConcurrency          = "search.concurrency"
	SearchLimit                = "search.limit"
	SearchShowQuerySuggestions = "search.show_query_suggestions"
)

// Chapters - range selection defaults.
const (
	ChaptersFirst           = "chapters.first"
	ChaptersLast            = "chapters.last"
	ChaptersSuppress        = "chapters.suppress"
	ChaptersMaxReselections = "chapters.max_reselections"
)

// Output - where and how downloaded books are written.
const (
	OutputPath         = "output.path"
	OutputFilename     = "output.filename"
	OutputFilenameOnly = "output.filename_only"
	OutputFormats      = "output.formats"
	OutputPackByVolume = "output.pack_by_volume"
	OutputOpenWhenDone = "output.open_when_done"
	OutputOpenWith     = "output.open_with"
)

// Download - chapter fetching.
const (
	DownloadWorkers  = "download.workers"
	DownloadProgress = "download.progress"
)

// Cache - source response caching.
const (
	CacheEnable = "cache.enable"
	CacheTTL    = "cache.ttl_hours"
)

// Iconography - visual rendering of UI symbols.
const (
	IconsVariant = "icons.variant"
)

// Logging Infrastructure - internal diagnostics.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment.
const (
	CliColored      = "cli.colored"
	CliVersionCheck = "cli.version_check"
)
