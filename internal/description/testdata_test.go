package description

const rendererXML = `<?xml version="1.0"?>
<root xmlns="urn:schemas-upnp-org:device-1-0" xmlns:dlna="urn:schemas-dlna-org:device-1-0">
  <specVersion><major>1</major><minor>1</minor></specVersion>
  <device>
    <deviceType>urn:schemas-upnp-org:device:MediaRenderer:1</deviceType>
    <friendlyName>  Living Room  </friendlyName>
    <manufacturer>Acme</manufacturer>
    <modelName>Renderer 3000</modelName>
    <UDN>uuid:4d696e69-444c-164e-9d41-b827eb96c6c2</UDN>
    <dlna:X_DLNADOC>DMR-1.50</dlna:X_DLNADOC>
    <iconList>
      <icon>
        <mimetype>image/png</mimetype>
        <width>120</width><height>120</height><depth>24</depth>
        <url>/icons/120.png</url>
      </icon>
    </iconList>
    <serviceList>
      <service>
        <serviceType>urn:schemas-upnp-org:service:RenderingControl:1</serviceType>
        <serviceId>urn:upnp-org:serviceId:RenderingControl</serviceId>
        <SCPDURL>/RenderingControl/scpd.xml</SCPDURL>
        <controlURL>/ctl/Svc</controlURL>
        <eventSubURL>/evt/RenderingControl</eventSubURL>
      </service>
      <service>
        <serviceType>urn:schemas-upnp-org:service:AVTransport:1</serviceType>
        <serviceId>urn:upnp-org:serviceId:AVTransport</serviceId>
        <SCPDURL>AVTransport/scpd.xml</SCPDURL>
        <controlURL>http://10.0.0.99:1234/avt</controlURL>
        <eventSubURL></eventSubURL>
      </service>
    </serviceList>
    <deviceList>
      <device>
        <deviceType>urn:schemas-upnp-org:device:Basic:1</deviceType>
        <UDN>uuid:00000000-0000-0000-0000-000000000001</UDN>
        <serviceList>
          <service>
            <serviceType>urn:example-com:service:Custom:2</serviceType>
            <controlURL>/custom</controlURL>
          </service>
        </serviceList>
        <deviceList>
          <device>
            <deviceType>urn:schemas-upnp-org:device:Leaf:1</deviceType>
            <UDN>uuid:00000000-0000-0000-0000-000000000002</UDN>
          </device>
        </deviceList>
      </device>
      <device>
        <deviceType>urn:schemas-upnp-org:device:Basic:1</deviceType>
        <UDN>uuid:00000000-0000-0000-0000-000000000003</UDN>
      </device>
    </deviceList>
  </device>
</root>`

const urlBaseXML = `<?xml version="1.0"?>
<root xmlns="urn:schemas-upnp-org:device-1-0">
  <specVersion><major>1</major><minor>0</minor></specVersion>
  <URLBase>http://192.168.1.1:5431/dyndev/</URLBase>
  <device>
    <deviceType>urn:schemas-upnp-org:device:InternetGatewayDevice:1</deviceType>
    <friendlyName>Router</friendlyName>
    <UDN>uuid:upnp-InternetGatewayDevice-1_0-001122334455</UDN>
    <serviceList>
      <service>
        <serviceType>urn:schemas-upnp-org:service:Layer3Forwarding:1</serviceType>
        <serviceId>urn:upnp-org:serviceId:L3Forwarding1</serviceId>
        <SCPDURL>/dynsvc/Layer3Forwarding:1.xml</SCPDURL>
        <controlURL>/uuid:0000e0a0-0001/Layer3Forwarding:1</controlURL>
        <eventSubURL>/uuid:0000e0a0-0001/Layer3Forwarding:1</eventSubURL>
      </service>
    </serviceList>
  </device>
</root>`
