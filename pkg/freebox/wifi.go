package freebox

import "context"

// WifiAP is a Wi-Fi radio.
type WifiAP struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Status       Object `json:"status"`
	Capabilities Object `json:"capabilities"`
	Config       Object `json:"config"`
}

// WifiStation is a client associated to an access point.
type WifiStation struct {
	ID           string   `json:"id"`
	Mac          string   `json:"mac"`
	Bssid        string   `json:"bssid"`
	Hostname     string   `json:"hostname"`
	Host         *LANHost `json:"host,omitempty"`
	State        string   `json:"state"`
	InactiveTime int      `json:"inactive"`
	ConnDuration int      `json:"conn_duration"`
	RxBytes      int64    `json:"rx_bytes"`
	TxBytes      int64    `json:"tx_bytes"`
	TxRate       int64    `json:"tx_rate"`
	RxRate       int64    `json:"rx_rate"`
	Signal       int      `json:"signal"`
	Flags        Object   `json:"flags"`
	LastRx       Object   `json:"last_rx"`
	LastTx       Object   `json:"last_tx"`
}

// WifiBSS is a broadcast network.
type WifiBSS struct {
	ID     string `json:"id"`
	PhyID  int    `json:"phy_id"`
	Status Object `json:"status"`
	Config Object `json:"config"`
	Shared bool   `json:"shared_bss_params,omitempty"`
}

// WifiGlobalConfig is the result of wifi/config/.
type WifiGlobalConfig struct {
	Enabled        bool   `json:"enabled"`
	MacFilterState string `json:"mac_filter_state"`
}

// Wifi wraps the wifi/ endpoints.
type Wifi struct {
	access *Access
}

// GetGlobalConfig returns the global Wi-Fi configuration.
func (w *Wifi) GetGlobalConfig(ctx context.Context) (*WifiGlobalConfig, error) {
	var config WifiGlobalConfig
	if err := w.access.Get(ctx, "wifi/config/", &config); err != nil {
		return nil, err
	}
	return &config, nil
}

// SetGlobalConfig updates the global Wi-Fi configuration, e.g. {"enabled": false}.
func (w *Wifi) SetGlobalConfig(ctx context.Context, config Object) (*WifiGlobalConfig, error) {
	var updated WifiGlobalConfig
	if err := w.access.Put(ctx, "wifi/config/", config, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// ResetConfig restores the factory Wi-Fi settings.
func (w *Wifi) ResetConfig(ctx context.Context) error {
	return w.access.Post(ctx, "wifi/config/reset/", nil, nil)
}

// GetAPs lists the access points.
func (w *Wifi) GetAPs(ctx context.Context) ([]WifiAP, error) {
	var aps []WifiAP
	err := w.access.Get(ctx, "wifi/ap/", &aps)
	return aps, err
}

// GetAP returns one access point.
func (w *Wifi) GetAP(ctx context.Context, apID int) (*WifiAP, error) {
	var ap WifiAP
	if err := w.access.Get(ctx, "wifi/ap/"+itoa(apID), &ap); err != nil {
		return nil, err
	}
	return &ap, nil
}

// SetAP updates an access point configuration.
func (w *Wifi) SetAP(ctx context.Context, apID int, config Object) (*WifiAP, error) {
	var ap WifiAP
	if err := w.access.Put(ctx, "wifi/ap/"+itoa(apID), config, &ap); err != nil {
		return nil, err
	}
	return &ap, nil
}

// GetAPAllowedChannels lists the channel combinations allowed for an access point.
func (w *Wifi) GetAPAllowedChannels(ctx context.Context, apID int) ([]Object, error) {
	var combs []Object
	err := w.access.Get(ctx, "wifi/ap/"+itoa(apID)+"/allowed_channel_comb/", &combs)
	return combs, err
}

// GetAPChannelUsage returns the measured channel usage.
func (w *Wifi) GetAPChannelUsage(ctx context.Context, apID int) ([]Object, error) {
	var usage []Object
	err := w.access.Get(ctx, "wifi/ap/"+itoa(apID)+"/channel_usage/", &usage)
	return usage, err
}

// GetAPNeighbors lists the neighbouring networks seen by an access point.
func (w *Wifi) GetAPNeighbors(ctx context.Context, apID int) ([]Object, error) {
	var neighbors []Object
	err := w.access.Get(ctx, "wifi/ap/"+itoa(apID)+"/neighbors/", &neighbors)
	return neighbors, err
}

// StartAPNeighborsScan refreshes the neighbour list.
func (w *Wifi) StartAPNeighborsScan(ctx context.Context, apID int) error {
	return w.access.Post(ctx, "wifi/ap/"+itoa(apID)+"/neighbors/scan/", nil, nil)
}

// GetStations lists the stations associated to an access point.
func (w *Wifi) GetStations(ctx context.Context, apID int) ([]WifiStation, error) {
	var stations []WifiStation
	err := w.access.Get(ctx, "wifi/ap/"+itoa(apID)+"/stations/", &stations)
	return stations, err
}

// GetStation returns one station by MAC address.
func (w *Wifi) GetStation(ctx context.Context, apID int, mac string) (*WifiStation, error) {
	var station WifiStation
	if err := w.access.Get(ctx, "wifi/ap/"+itoa(apID)+"/stations/"+escape(mac), &station); err != nil {
		return nil, err
	}
	return &station, nil
}

// GetBSSs lists the broadcast networks.
func (w *Wifi) GetBSSs(ctx context.Context) ([]WifiBSS, error) {
	var bss []WifiBSS
	err := w.access.Get(ctx, "wifi/bss/", &bss)
	return bss, err
}

// GetBSS returns one broadcast network.
func (w *Wifi) GetBSS(ctx context.Context, bssID string) (*WifiBSS, error) {
	var bss WifiBSS
	if err := w.access.Get(ctx, "wifi/bss/"+escape(bssID), &bss); err != nil {
		return nil, err
	}
	return &bss, nil
}

// SetBSS updates a broadcast network, e.g. its SSID or key.
func (w *Wifi) SetBSS(ctx context.Context, bssID string, config Object) (*WifiBSS, error) {
	var bss WifiBSS
	if err := w.access.Put(ctx, "wifi/bss/"+escape(bssID), config, &bss); err != nil {
		return nil, err
	}
	return &bss, nil
}

// GetCustomKeys lists the guest network keys.
func (w *Wifi) GetCustomKeys(ctx context.Context) ([]Object, error) {
	var keys []Object
	err := w.access.Get(ctx, "wifi/custom_key/", &keys)
	return keys, err
}

// GetCustomKey returns one guest network key.
func (w *Wifi) GetCustomKey(ctx context.Context, keyID int) (Object, error) {
	var key Object
	err := w.access.Get(ctx, "wifi/custom_key/"+itoa(keyID), &key)
	return key, err
}

// CreateCustomKey adds a guest network key.
func (w *Wifi) CreateCustomKey(ctx context.Context, key Object) (Object, error) {
	var created Object
	err := w.access.Post(ctx, "wifi/custom_key/", key, &created)
	return created, err
}

// DeleteCustomKey removes a guest network key.
func (w *Wifi) DeleteCustomKey(ctx context.Context, keyID int) error {
	return w.access.Delete(ctx, "wifi/custom_key/"+itoa(keyID), nil, nil)
}

// GetMacFilters lists the MAC filter entries.
func (w *Wifi) GetMacFilters(ctx context.Context) ([]Object, error) {
	var filters []Object
	err := w.access.Get(ctx, "wifi/mac_filter/", &filters)
	return filters, err
}

// GetMacFilter returns one MAC filter entry.
func (w *Wifi) GetMacFilter(ctx context.Context, filterID string) (Object, error) {
	var filter Object
	err := w.access.Get(ctx, "wifi/mac_filter/"+escape(filterID), &filter)
	return filter, err
}

// CreateMacFilter adds a MAC filter entry.
func (w *Wifi) CreateMacFilter(ctx context.Context, filter Object) (Object, error) {
	var created Object
	err := w.access.Post(ctx, "wifi/mac_filter/", filter, &created)
	return created, err
}

// SetMacFilter updates a MAC filter entry.
func (w *Wifi) SetMacFilter(ctx context.Context, filterID string, filter Object) (Object, error) {
	var updated Object
	err := w.access.Put(ctx, "wifi/mac_filter/"+escape(filterID), filter, &updated)
	return updated, err
}

// DeleteMacFilter removes a MAC filter entry.
func (w *Wifi) DeleteMacFilter(ctx context.Context, filterID string) error {
	return w.access.Delete(ctx, "wifi/mac_filter/"+escape(filterID), nil, nil)
}

// GetPlanning returns the Wi-Fi schedule.
func (w *Wifi) GetPlanning(ctx context.Context) (Object, error) {
	var planning Object
	err := w.access.Get(ctx, "wifi/planning/", &planning)
	return planning, err
}

// SetPlanning updates the Wi-Fi schedule.
func (w *Wifi) SetPlanning(ctx context.Context, planning Object) (Object, error) {
	var updated Object
	err := w.access.Put(ctx, "wifi/planning/", planning, &updated)
	return updated, err
}

// GetWPSCandidates lists the stations attempting a WPS association.
func (w *Wifi) GetWPSCandidates(ctx context.Context) ([]Object, error) {
	var candidates []Object
	err := w.access.Get(ctx, "wifi/wps/candidates/", &candidates)
	return candidates, err
}

// GetWPSSessions lists the WPS sessions.
func (w *Wifi) GetWPSSessions(ctx context.Context) ([]Object, error) {
	var sessions []Object
	err := w.access.Get(ctx, "wifi/wps/sessions/", &sessions)
	return sessions, err
}

// GetWPSSession returns one WPS session.
func (w *Wifi) GetWPSSession(ctx context.Context, sessionID int) (Object, error) {
	var session Object
	err := w.access.Get(ctx, "wifi/wps/sessions/"+itoa(sessionID), &session)
	return session, err
}

// ResetWPSSessions clears the finished WPS sessions.
func (w *Wifi) ResetWPSSessions(ctx context.Context) error {
	return w.access.Delete(ctx, "wifi/wps/sessions/", nil, nil)
}

// StartWPS starts a WPS session on the given BSS.
func (w *Wifi) StartWPS(ctx context.Context, bssID string) (Object, error) {
	var session Object
	err := w.access.Post(ctx, "wifi/wps/start/", Object{"bssid": bssID}, &session)
	return session, err
}

// StopWPS stops a WPS session.
func (w *Wifi) StopWPS(ctx context.Context, sessionID int) error {
	return w.access.Post(ctx, "wifi/wps/stop/", Object{"session_id": sessionID}, nil)
}
