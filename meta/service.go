package meta

import "sync"

var (
	serviceName    string    //nolint:gochecknoglobals // set once at startup
	serviceVersion string    //nolint:gochecknoglobals // set once at startup
	once           sync.Once //nolint:gochecknoglobals // guards SetServiceInfo
)

// SetServiceInfo records the service name and version. Only the first call has effect.
func SetServiceInfo(name, version string) {
	once.Do(func() {
		serviceName = name
		serviceVersion = version
	})
}

// GetServiceName returns the name recorded by SetServiceInfo.
func GetServiceName() string {
	return serviceName
}

// GetServiceVersion returns the version recorded by SetServiceInfo.
func GetServiceVersion() string {
	return serviceVersion
}
