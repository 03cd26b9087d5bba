package constant

// Values of runtime.GOOS the open package knows how to handle.
const (
	Windows = "windows"
	Darwin  = "darwin"
	Linux   = "linux"
	Android = "android"
)
