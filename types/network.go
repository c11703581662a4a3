package types

// Network identifies the chain payments are made on.
type Network string

const (
	NetworkBase        Network = "base"
	NetworkBaseSepolia Network = "base-sepolia" // testnet
	NetworkPolygon     Network = "polygon"
	NetworkPolygonAmoy Network = "polygon-amoy" // testnet
)

// KnownNetworks lists the networks this server accepts in configuration.
func KnownNetworks() []Network {
	return []Network{
		NetworkBase,
		NetworkBaseSepolia,
		NetworkPolygon,
		NetworkPolygonAmoy,
	}
}

// IsKnown reports whether the network is one this server can price routes on.
func (n Network) IsKnown() bool {
	for _, known := range KnownNetworks() {
		if n == known {
			return true
		}
	}
	return false
}

// IsTestnet reports whether the network is a test network.
func (n Network) IsTestnet() bool {
	return n == NetworkBaseSepolia || n == NetworkPolygonAmoy
}

func (n Network) String() string {
	return string(n)
}
