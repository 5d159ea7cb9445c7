package urls

// Reference documents quoted in troubleshooting output.

// DeviceArchitecture is the UPnP Device Architecture 1.1 specification,
// which defines description documents, SOAP control and the error table.
const DeviceArchitecture = "https://openconnectivity.org/upnp-specs/UPnP-arch-DeviceArchitecture-v1.1.pdf"

// SSDPOverview describes SSDP multicast discovery and the firewall
// requirements for UDP port 1900.
const SSDPOverview = "https://en.wikipedia.org/wiki/Simple_Service_Discovery_Protocol"

// StandardizedDCPs lists the standardized device control protocols
// (MediaRenderer, InternetGatewayDevice and others) and their service types.
const StandardizedDCPs = "https://openconnectivity.org/developer/specifications/upnp-resources/upnp/"
