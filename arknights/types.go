package arknights

// Identity-provider (Yostar SDK) envelope: Code 200 is success.
type yostarResponse struct {
	Code int    `json:"Code"`
	Msg  string `json:"Msg"`
}

type sendCodeRequest struct {
	Account string `json:"Account"`
	Randstr string `json:"Randstr"`
	Ticket  string `json:"Ticket"`
}

type submitCodeRequest struct {
	Account string `json:"Account"`
	Code    string `json:"Code"`
}

type submitCodeResponse struct {
	yostarResponse
	Data *struct {
		Token string `json:"Token"`
	} `json:"Data"`
}

type yostarLoginRequest struct {
	Account string `json:"Account"`
	Token   string `json:"Token"`
	Device  string `json:"Device"`
}

type yostarLoginResponse struct {
	yostarResponse
	Data *struct {
		UID   string `json:"UID"`
		Token string `json:"Token"`
	} `json:"Data"`
}

// Passport gateway shapes.
type passportLoginRequest struct {
	Platform string `json:"platform"`
	UID      string `json:"uid"`
	Token    string `json:"token"`
	DeviceID string `json:"deviceId"`
}

type passportLoginResponse struct {
	Result      int    `json:"result"`
	AccessToken string `json:"accessToken"`
}

type guestCreateRequest struct {
	DeviceID string `json:"deviceId"`
}

type guestCreateResponse struct {
	Result int    `json:"result"`
	UID    string `json:"uid"`
	Token  string `json:"token"`
}

// U8 gateway shapes. The extension payload is JSON-encoded into a string
// field and its shape depends on the distributor channel.
type u8ChannelExtension struct {
	Type  int    `json:"type"`
	UID   string `json:"uid"`
	Token string `json:"token"`
}

type u8AgentExtension struct {
	UID         string `json:"uid"`
	AccessToken string `json:"access_token"`
}

type u8TokenRequest struct {
	AppID      string `json:"appId"`
	Platform   int    `json:"platform"`
	ChannelID  string `json:"channelId"`
	SubChannel string `json:"subChannel"`
	Extension  string `json:"extension"`
	WorldID    string `json:"worldId"`
	DeviceID   string `json:"deviceId"`
	DeviceID2  string `json:"deviceId2"`
	DeviceID3  string `json:"deviceId3"`
	Sign       string `json:"sign"`
}

type u8TokenResponse struct {
	Result int    `json:"result"`
	Error  string `json:"error"`
	UID    string `json:"uid"`
	Token  string `json:"token"`
}

// Gameplay gateway shapes.
type accountLoginRequest struct {
	Platform       int    `json:"platform"`
	NetworkVersion string `json:"networkVersion"`
	AssetsVersion  string `json:"assetsVersion"`
	ClientVersion  string `json:"clientVersion"`
	Token          string `json:"token"`
	UID            string `json:"uid"`
	DeviceID       string `json:"deviceId"`
	DeviceID2      string `json:"deviceId2"`
	DeviceID3      string `json:"deviceId3"`
}

type accountLoginResponse struct {
	Result int    `json:"result"`
	Error  string `json:"error"`
	UID    string `json:"uid"`
	Secret string `json:"secret"`
}
