// version.go
package version

// AppName holds the name of the client library
var AppName = "go-openapi-http-client"

// Version holds the current version of the client library
var Version = "0.1.0"

// UserAgent returns the User-Agent value sent with every outbound request.
func UserAgent() string {
	return AppName + "/" + Version
}
