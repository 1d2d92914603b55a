package mimesniff

// Generic binary fallback when nothing else matches.
const FallbackBinary = "application/octet-stream"

// Family defaults for the image fetch path.
const FallbackImage = "image/jpeg"

// extensionTypes maps lowercase file extensions (without the dot) to MIME
// types. It intentionally covers only what the translation paths care about;
// anything else falls through to the magic-number stage.
var extensionTypes = map[string]string{
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
	"webp": "image/webp",
	"bmp":  "image/bmp",
	"heic": "image/heic",
	"heif": "image/heif",

	"mp3":  "audio/mpeg",
	"wav":  "audio/wav",
	"ogg":  "audio/ogg",
	"oga":  "audio/ogg",
	"m4a":  "audio/mp4",
	"aac":  "audio/aac",
	"flac": "audio/flac",
	"opus": "audio/opus",

	"mp4":  "video/mp4",
	"webm": "video/webm",
	"mov":  "video/quicktime",
	"avi":  "video/x-msvideo",
	"mkv":  "video/x-matroska",
	"flv":  "video/x-flv",
	"mpg":  "video/mpeg",
	"mpeg": "video/mpeg",

	"pdf":  "application/pdf",
	"doc":  "application/msword",
	"docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"xls":  "application/vnd.ms-excel",
	"xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	"ppt":  "application/vnd.ms-powerpoint",
	"pptx": "application/vnd.openxmlformats-officedocument.presentationml.presentation",
	"txt":  "text/plain",
	"csv":  "text/csv",
	"json": "application/json",
	"xml":  "application/xml",
	"zip":  "application/zip",
}

// audioExtensions is the small table consulted by the audio fetch path before
// giving up to the generic fallback.
var audioExtensions = map[string]string{
	"mp3":  "audio/mpeg",
	"wav":  "audio/wav",
	"ogg":  "audio/ogg",
	"m4a":  "audio/mp4",
	"aac":  "audio/aac",
	"flac": "audio/flac",
	"opus": "audio/opus",
}
