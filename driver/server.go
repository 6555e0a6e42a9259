package driver

import (
	pluginIpam "github.com/docker/go-plugins-helpers/ipam"
	log "github.com/sirupsen/logrus"
)

// PluginServer .
type PluginServer interface {
	ServeIpam(pluginIpam.Ipam) error
}

type pluginServer struct {
	driverName string
}

// NewPluginServer .
func NewPluginServer(driverName string) PluginServer {
	return pluginServer{driverName: driverName}
}

func (s pluginServer) ServeIpam(ipam pluginIpam.Ipam) error {
	log.Infoln("start ipam.")
	err := pluginIpam.NewHandler(ipam).ServeUnix(s.driverName, 0)
	log.Infoln("ipam has stopped working.")
	return err
}
