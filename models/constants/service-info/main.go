package serviceInfo

import "fmt"

type ServiceInfo string

var (
	SERVICE_NAME        ServiceInfo = "gnomAD Pipeline Service"
	SERVICE_WELCOME     ServiceInfo = "Welcome to the gnomAD variant composition and loading API!"
	SERVICE_DESCRIPTION ServiceInfo = "Composes staged gnomAD variant records and loads genes and variants into Elasticsearch."

	SERVICE_ARTIFACT    ServiceInfo = "gnomad-pipeline"
	SERVICE_VERSION     ServiceInfo = "0.1.0"
	SERVICE_TYPE_NO_VER ServiceInfo = ServiceInfo(fmt.Sprintf("org.gnomad:%s", SERVICE_ARTIFACT))
	SERVICE_ID          ServiceInfo = SERVICE_TYPE_NO_VER
	SERVICE_TYPE        ServiceInfo = ServiceInfo(fmt.Sprintf("%s:%s", SERVICE_TYPE_NO_VER, SERVICE_VERSION))
)
