package entities

// Dataset identifies a logical view over the shared physical source file.
// Every dataset is backed by the same file today; each applies its own
// post-processing and is cached under its own key.
type Dataset string

const (
	// DatasetInboundReferrals holds referrals made to the firm
	DatasetInboundReferrals Dataset = "inbound"

	// DatasetOutboundReferrals holds referrals made from the firm to providers
	DatasetOutboundReferrals Dataset = "outbound"

	// DatasetAllReferrals combines inbound and outbound referrals
	DatasetAllReferrals Dataset = "all_referrals"

	// DatasetProviderRoster holds unique providers with referral counts
	DatasetProviderRoster Dataset = "provider"

	// DatasetPreferredProviders holds the firm's preferred provider contacts
	DatasetPreferredProviders Dataset = "preferred_providers"
)

// AllDatasets lists every logical dataset the service knows about.
func AllDatasets() []Dataset {
	return []Dataset{
		DatasetInboundReferrals,
		DatasetOutboundReferrals,
		DatasetAllReferrals,
		DatasetProviderRoster,
		DatasetPreferredProviders,
	}
}

// CriticalDatasets lists the high-traffic datasets warmed eagerly at startup.
func CriticalDatasets() []Dataset {
	return []Dataset{
		DatasetAllReferrals,
		DatasetPreferredProviders,
		DatasetProviderRoster,
	}
}

func (d Dataset) String() string {
	return string(d)
}
