package ui

// Console texts, kept in one place so tests can match them exactly.

// Prompts
const (
	PromptURL       = "Enter YouTube video URL: "
	PromptOutputDir = "Enter output directory (press Enter for current directory): "
)

// Status lines
const (
	MsgFetching           = "Fetching video information..."
	MsgDownloadingFormat  = "\nDownloading: %s\n"
	MsgChannelFormat      = "Channel: %s\n"
	MsgAvailableFormat    = "%[1]s quality available - downloading at %[1]s\n"
	MsgNotAvailableFormat = "%s not available. Available qualities: %s%s\n"
	MsgCompleted          = "\nDownload completed successfully!"
	MsgSavedToFormat      = "Saved to: %s\n"
	MsgErrorFormat        = "An error occurred: %s\n"
	MsgTipsHeader         = "\nTroubleshooting tips:"
)

// Text fragments
const (
	HeightUnit     = "px"
	ListOpen       = "["
	ListClose      = "]"
	ListSeparator  = ", "
	TipIndexFormat = "%d. %s\n"
)

// TroubleshootingTips is printed after any failure, in this order
var TroubleshootingTips = []string{
	"Check your internet connection",
	"Verify the video URL is correct",
	"Make sure you have write permissions in the output directory",
	"Update yt-dlp using: pip install -U yt-dlp (or set YT1080_AUTO_INSTALL=true)",
	"If you see 'Requested format is not available', the video might not be available in 1080p",
}
