package freebox

import (
	"context"
	"fmt"
	"strings"
)

// HomeNode is a device of the home automation network.
type HomeNode struct {
	ID            int      `json:"id"`
	AdapterID     int      `json:"adapter"`
	Category      string   `json:"category"`
	Label         string   `json:"label"`
	Name          string   `json:"name"`
	Status        string   `json:"status"`
	Type          Object   `json:"type"`
	ShowEndpoints []Object `json:"show_endpoints,omitempty"`
	Props         Object   `json:"props,omitempty"`
}

// HomeEndpointRef addresses one endpoint of a node.
type HomeEndpointRef struct {
	NodeID     int `json:"id"`
	EndpointID int `json:"ep_id"`
}

// HomeEndpointValue carries the value of an endpoint.
type HomeEndpointValue struct {
	Value     any    `json:"value"`
	ValueType string `json:"value_type,omitempty"`
	Refresh   int    `json:"refresh,omitempty"`
}

// Camera is an entry of the camera list.
type Camera struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	StreamURL string `json:"stream_url"`
}

// Camera snapshot sizes.
const (
	CameraSize320x240  = 2
	CameraSize640x480  = 3
	CameraSize1280x720 = 4
)

// Home wraps the home automation endpoints (adapters, nodes, endpoints, links,
// rules, security module, SMS numbers, tilesets, pairing and cameras).
type Home struct {
	access *Access
}

// GetAdapters lists the home adapters.
func (h *Home) GetAdapters(ctx context.Context) ([]Object, error) {
	var adapters []Object
	err := h.access.Get(ctx, "home/adapters", &adapters)
	return adapters, err
}

// GetAdapter returns one home adapter.
func (h *Home) GetAdapter(ctx context.Context, id int) (Object, error) {
	var adapter Object
	err := h.access.Get(ctx, "home/adapters/"+itoa(id), &adapter)
	return adapter, err
}

// DeleteAdapter removes a home adapter.
func (h *Home) DeleteAdapter(ctx context.Context, id int) error {
	return h.access.Delete(ctx, "home/adapters/"+itoa(id), nil, nil)
}

// GetNodes lists the home nodes.
func (h *Home) GetNodes(ctx context.Context) ([]HomeNode, error) {
	var nodes []HomeNode
	err := h.access.Get(ctx, "home/nodes", &nodes)
	return nodes, err
}

// GetNode returns one home node.
func (h *Home) GetNode(ctx context.Context, id int) (*HomeNode, error) {
	var node HomeNode
	if err := h.access.Get(ctx, "home/nodes/"+itoa(id), &node); err != nil {
		return nil, err
	}
	return &node, nil
}

// UpdateNode changes a home node, e.g. its label.
func (h *Home) UpdateNode(ctx context.Context, id int, update Object) (*HomeNode, error) {
	var node HomeNode
	if err := h.access.Put(ctx, "home/nodes/"+itoa(id), update, &node); err != nil {
		return nil, err
	}
	return &node, nil
}

// DeleteNode removes a home node.
func (h *Home) DeleteNode(ctx context.Context, id int) error {
	return h.access.Delete(ctx, "home/nodes/"+itoa(id), nil, nil)
}

// GetNodeNewRules lists the rules that can be created for a node.
func (h *Home) GetNodeNewRules(ctx context.Context, id int) ([]Object, error) {
	var rules []Object
	err := h.access.Get(ctx, "home/nodes/"+itoa(id)+"/rules", &rules)
	return rules, err
}

// GetNodeExistingRuleConfig returns the configuration of an existing rule.
func (h *Home) GetNodeExistingRuleConfig(ctx context.Context, nodeID, ruleNodeID, roleID int) (Object, error) {
	var config Object
	err := h.access.Get(ctx, fmt.Sprintf("home/nodes/%d/rules/node/%d/%d", nodeID, ruleNodeID, roleID), &config)
	return config, err
}

// GetNodeTemplateRuleConfig returns the configuration of a rule template.
func (h *Home) GetNodeTemplateRuleConfig(ctx context.Context, nodeID int, templateName string, roleID int) (Object, error) {
	var config Object
	err := h.access.Get(ctx, fmt.Sprintf("home/nodes/%d/rules/template/%s/%d", nodeID, escape(templateName), roleID), &config)
	return config, err
}

// CreateNodeRule creates a rule from a template.
func (h *Home) CreateNodeRule(ctx context.Context, templateName string, rule Object) (Object, error) {
	var created Object
	err := h.access.Post(ctx, "home/rules/"+escape(templateName), rule, &created)
	return created, err
}

// SetNodeRuleConfig updates the configuration of a rule.
func (h *Home) SetNodeRuleConfig(ctx context.Context, ruleNodeID int, config Object) (Object, error) {
	var updated Object
	err := h.access.Put(ctx, "home/rules/"+itoa(ruleNodeID), config, &updated)
	return updated, err
}

// GetEndpointValue reads one endpoint.
func (h *Home) GetEndpointValue(ctx context.Context, nodeID, endpointID int) (*HomeEndpointValue, error) {
	var value HomeEndpointValue
	if err := h.access.Get(ctx, fmt.Sprintf("home/endpoints/%d/%d", nodeID, endpointID), &value); err != nil {
		return nil, err
	}
	return &value, nil
}

// GetEndpointValues reads several endpoints at once.
func (h *Home) GetEndpointValues(ctx context.Context, refs []HomeEndpointRef) ([]Object, error) {
	var values []Object
	err := h.access.Post(ctx, "home/endpoints/get", refs, &values)
	return values, err
}

// SetEndpointValue writes one endpoint, e.g. to switch a plug.
func (h *Home) SetEndpointValue(ctx context.Context, nodeID, endpointID int, value any) error {
	return h.access.Put(ctx, fmt.Sprintf("home/endpoints/%d/%d", nodeID, endpointID), HomeEndpointValue{Value: value}, nil)
}

// GetLinks lists the home links.
func (h *Home) GetLinks(ctx context.Context) ([]Object, error) {
	var links []Object
	err := h.access.Get(ctx, "home/links", &links)
	return links, err
}

// GetLink returns one home link.
func (h *Home) GetLink(ctx context.Context, id int) (Object, error) {
	var link Object
	err := h.access.Get(ctx, "home/links/"+itoa(id), &link)
	return link, err
}

// DeleteLink removes a home link.
func (h *Home) DeleteLink(ctx context.Context, id int) error {
	return h.access.Delete(ctx, "home/links/"+itoa(id), nil, nil)
}

// GetSecmod returns the security module state.
func (h *Home) GetSecmod(ctx context.Context) (Object, error) {
	var secmod Object
	err := h.access.Get(ctx, "home/secmod", &secmod)
	return secmod, err
}

// GetSMSNumbers lists the numbers notified by the alarm.
func (h *Home) GetSMSNumbers(ctx context.Context) ([]Object, error) {
	var numbers []Object
	err := h.access.Get(ctx, "home/sms/numbers", &numbers)
	return numbers, err
}

// CreateSMSNumber adds a notified number.
func (h *Home) CreateSMSNumber(ctx context.Context, number Object) (Object, error) {
	var created Object
	err := h.access.Post(ctx, "home/sms/numbers", number, &created)
	return created, err
}

// UpdateSMSNumber changes a notified number.
func (h *Home) UpdateSMSNumber(ctx context.Context, id int, number Object) (Object, error) {
	var updated Object
	err := h.access.Put(ctx, "home/sms/numbers/"+itoa(id), number, &updated)
	return updated, err
}

// SendSMSNumberValidation sends the validation code to a number.
func (h *Home) SendSMSNumberValidation(ctx context.Context, id int, request Object) error {
	return h.access.Post(ctx, "home/sms/numbers/"+itoa(id)+"/send_validation_sms", request, nil)
}

// ValidateSMSNumber confirms a number with the code it received.
func (h *Home) ValidateSMSNumber(ctx context.Context, id int, validationCode string) error {
	return h.access.Post(ctx, "home/sms/numbers/"+itoa(id)+"/validate", Object{"validationCode": validationCode}, nil)
}

// GetTilesets lists the home tilesets.
func (h *Home) GetTilesets(ctx context.Context) ([]Object, error) {
	var tilesets []Object
	err := h.access.Get(ctx, "home/tileset/all", &tilesets)
	return tilesets, err
}

// GetTile returns one tile.
func (h *Home) GetTile(ctx context.Context, id int) (Object, error) {
	var tile Object
	err := h.access.Get(ctx, "home/tileset/"+itoa(id), &tile)
	return tile, err
}

// GetPairingState returns the pairing state of an adapter.
func (h *Home) GetPairingState(ctx context.Context, adapterID int) (Object, error) {
	var state Object
	err := h.access.Get(ctx, "home/pairing/"+itoa(adapterID), &state)
	return state, err
}

// PairingStep sends a pairing step to an adapter: start, next or stop
// depending on the payload.
func (h *Home) PairingStep(ctx context.Context, adapterID int, step Object) (Object, error) {
	var result Object
	err := h.access.Post(ctx, "home/pairing/"+itoa(adapterID), step, &result)
	return result, err
}

// GetCameras lists the cameras.
func (h *Home) GetCameras(ctx context.Context) ([]Camera, error) {
	var cameras []Camera
	err := h.access.Get(ctx, "camera", &cameras)
	return cameras, err
}

// GetCameraSnapshot returns a still image of the camera at index.
func (h *Home) GetCameraSnapshot(ctx context.Context, index, size, quality int) (*RawResponse, error) {
	return h.cameraResource(ctx, index, fmt.Sprintf("snapshot.cgi?size=%d&quality=%d", size, quality))
}

// GetCameraStream returns the HLS playlist of the camera at index. Channel 1 is SD, 2 is HD.
func (h *Home) GetCameraStream(ctx context.Context, index, channel int) (*RawResponse, error) {
	return h.cameraResource(ctx, index, fmt.Sprintf("stream.m3u8?channel=%d", channel))
}

// GetCameraSegment returns one transport stream segment named in the playlist.
func (h *Home) GetCameraSegment(ctx context.Context, index int, segment string) (*RawResponse, error) {
	return h.cameraResource(ctx, index, segment)
}

func (h *Home) cameraResource(ctx context.Context, index int, resource string) (*RawResponse, error) {
	cameras, err := h.GetCameras(ctx)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(cameras) {
		return nil, fmt.Errorf("no camera at index %d (%d found)", index, len(cameras))
	}

	path := strings.Replace(cameras[index].StreamURL, "stream.m3u8", resource, 1)
	var raw RawResponse
	if err := h.access.Get(ctx, strings.TrimPrefix(path, "/"), &raw); err != nil {
		return nil, err
	}
	return &raw, nil
}
