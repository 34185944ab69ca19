package arknights

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
)

// The login handshake is strictly ordered:
//
//	SendCode    -> email code request (caller waits for the user's inbox)
//	SubmitCode  -> one-time code for a short-lived email token
//	RequestToken-> email token for a (channel UID, channel token) pair
//	GetU8Token  -> channel credentials for the platform access + U8 token
//	GetSecret   -> U8 token for the session signing secret
//
// Every step returns its failure; there is no limping forward on a failed
// exchange. The event hook sees the same failures for logging.

// SendCode asks the identity provider to mail a one-time login code.
func (c *Client) SendCode(ctx context.Context, email string, region Region) error {
	host, err := authGatewayHost(region)
	if err != nil {
		return err
	}
	c.emitInfo("sendCode", region, "sending code to "+email)

	data, err := c.Request(ctx, Domain(host), "yostar/send-code", &RequestArgs{
		Body: sendCodeRequest{Account: email},
		Sign: true,
	}, region)
	if err != nil {
		return err
	}

	var resp yostarResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return fmt.Errorf("parse send-code response: %w", err)
	}
	if resp.Code != 200 {
		err := fmt.Errorf("send-code rejected: code %d: %s", resp.Code, resp.Msg)
		c.emitErr("sendCode", region, "send-code failed", err)
		return err
	}
	return nil
}

// SubmitCode exchanges the mailed one-time code for a short-lived email token.
func (c *Client) SubmitCode(ctx context.Context, email, code string, region Region) (string, error) {
	host, err := authGatewayHost(region)
	if err != nil {
		return "", err
	}

	data, err := c.Request(ctx, Domain(host), "yostar/get-auth", &RequestArgs{
		Body: submitCodeRequest{Account: email, Code: code},
		Sign: true,
	}, region)
	if err != nil {
		return "", err
	}

	var resp submitCodeResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return "", fmt.Errorf("parse get-auth response: %w", err)
	}
	if resp.Code != 200 || resp.Data == nil || resp.Data.Token == "" {
		err := fmt.Errorf("get-auth rejected: code %d: %s", resp.Code, resp.Msg)
		c.emitErr("submitCode", region, "code submission failed", err)
		return "", err
	}
	return resp.Data.Token, nil
}

// RequestToken exchanges the email token for the channel UID and channel
// token at the identity provider's login endpoint.
func (c *Client) RequestToken(ctx context.Context, email, emailToken string, region Region) (channelUID, channelToken string, err error) {
	host, err := authGatewayHost(region)
	if err != nil {
		return "", "", err
	}

	data, err := c.Request(ctx, Domain(host), "user/login", &RequestArgs{
		Body:      yostarLoginRequest{Account: email, Token: emailToken, Device: c.DeviceIDs()[0]},
		Sign:      true,
		SignToken: emailToken,
	}, region)
	if err != nil {
		return "", "", err
	}

	var resp yostarLoginResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return "", "", fmt.Errorf("parse identity login response: %w", err)
	}
	if resp.Code != 200 || resp.Data == nil || resp.Data.UID == "" {
		err := fmt.Errorf("identity login rejected: code %d: %s", resp.Code, resp.Msg)
		c.emitErr("requestToken", region, "identity login failed", err)
		return "", "", err
	}
	return resp.Data.UID, resp.Data.Token, nil
}

// getAccessToken exchanges channel credentials for the platform access token
// at the passport gateway.
func (c *Client) getAccessToken(ctx context.Context, channelUID, channelToken string, region Region) (string, error) {
	host, err := passportHost(region)
	if err != nil {
		return "", err
	}

	data, err := c.Request(ctx, Domain(host), "user/login", &RequestArgs{
		Body: passportLoginRequest{
			Platform: yostarPlatform,
			UID:      channelUID,
			Token:    channelToken,
			DeviceID: c.DeviceIDs()[0],
		},
	}, region)
	if err != nil {
		return "", err
	}

	var resp passportLoginResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return "", fmt.Errorf("parse passport login response: %w", err)
	}
	if resp.Result != 0 || resp.AccessToken == "" {
		err := fmt.Errorf("passport login rejected: result %d", resp.Result)
		c.emitErr("getAccessToken", region, "passport login failed", err)
		return "", err
	}
	return resp.AccessToken, nil
}

// GetU8Token exchanges the channel UID and token for the player UID and U8
// token. The request body carries the channel-specific extension payload and
// the gateway HMAC signature.
func (c *Client) GetU8Token(ctx context.Context, channelUID, channelToken string, region Region) (uid, token string, err error) {
	chID, err := channelID(region)
	if err != nil {
		return "", "", err
	}
	c.emitInfo("getU8Token", region, "getting U8 token for "+channelUID)

	accessToken, err := c.getAccessToken(ctx, channelUID, channelToken, region)
	if err != nil {
		return "", "", err
	}

	var ext any
	if chID == "3" {
		ext = u8ChannelExtension{Type: 1, UID: channelUID, Token: accessToken}
	} else {
		ext = u8AgentExtension{UID: channelUID, AccessToken: accessToken}
	}
	extJSON, err := json.Marshal(ext)
	if err != nil {
		return "", "", fmt.Errorf("marshal extension: %w", err)
	}

	devices := c.DeviceIDs()
	body := u8TokenRequest{
		AppID:      "1",
		Platform:   1,
		ChannelID:  chID,
		SubChannel: chID,
		Extension:  string(extJSON),
		WorldID:    chID,
		DeviceID:   devices[0],
		DeviceID2:  devices[1],
		DeviceID3:  devices[2],
	}
	body.Sign = U8Sign(map[string]string{
		"appId":      body.AppID,
		"platform":   strconv.Itoa(body.Platform),
		"channelId":  body.ChannelID,
		"subChannel": body.SubChannel,
		"extension":  body.Extension,
		"worldId":    body.WorldID,
		"deviceId":   body.DeviceID,
		"deviceId2":  body.DeviceID2,
		"deviceId3":  body.DeviceID3,
	})

	data, err := c.Request(ctx, DomainU8, "user/v1/getToken", &RequestArgs{Body: body}, region)
	if err != nil {
		return "", "", err
	}

	var resp u8TokenResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return "", "", fmt.Errorf("parse U8 token response: %w", err)
	}
	if resp.Result != 0 || resp.UID == "" {
		err := fmt.Errorf("U8 token rejected: result %d: %s", resp.Result, resp.Error)
		c.emitErr("getU8Token", region, "U8 token exchange failed", err)
		return "", "", err
	}
	return resp.UID, resp.Token, nil
}

// GetSecret exchanges the U8 token for the session signing secret at the
// gameplay gateway, loading the region's version config on demand.
func (c *Client) GetSecret(ctx context.Context, uid, u8Token string, region Region) (string, error) {
	nv, err := networkVersion(region)
	if err != nil {
		return "", err
	}
	c.emitInfo("getSecret", region, "getting session secret for "+uid)

	resVersion, clientVersion := c.Versions(region)
	if resVersion == "" {
		if err := c.LoadVersionConfig(ctx, region); err != nil {
			return "", err
		}
		resVersion, clientVersion = c.Versions(region)
	}

	devices := c.DeviceIDs()
	args := &RequestArgs{
		Body: accountLoginRequest{
			Platform:       1,
			NetworkVersion: nv,
			AssetsVersion:  resVersion,
			ClientVersion:  clientVersion,
			Token:          u8Token,
			UID:            uid,
			DeviceID:       devices[0],
			DeviceID2:      devices[1],
			DeviceID3:      devices[2],
		},
		Headers:   map[string]string{"uid": uid, "seqnum": "1", "secret": ""},
		Sign:      true,
		SignUID:   uid,
		SignToken: u8Token,
	}
	data, err := c.Request(ctx, DomainGS, "account/login", args, region)
	if err != nil {
		return "", err
	}

	var resp accountLoginResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return "", fmt.Errorf("parse account login response: %w", err)
	}
	if resp.Result != 0 || resp.Secret == "" {
		err := fmt.Errorf("account login rejected: result %d: %s", resp.Result, resp.Error)
		c.emitErr("getSecret", region, "account login failed", err)
		return "", err
	}
	return resp.Secret, nil
}

// Login runs the code-exchange handshake end to end and fills sess in place.
// SendCode must have been called beforehand so the user holds a code. A nil
// sess allocates a fresh session. Exactly one EventLoginOK is emitted on
// success; any failed step aborts the handshake and is returned.
func (c *Client) Login(ctx context.Context, email, code string, region Region, sess *Session) (*Session, error) {
	if region == "" {
		region = c.region
	}

	emailToken, err := c.SubmitCode(ctx, email, code, region)
	if err != nil {
		return nil, err
	}
	channelUID, channelToken, err := c.RequestToken(ctx, email, emailToken, region)
	if err != nil {
		return nil, err
	}
	return c.LoginWithToken(ctx, channelUID, channelToken, region, sess)
}

// LoginWithToken logs in with saved channel credentials, skipping the email
// steps. This is the re-login path for callers that persisted the channel
// UID/token pair from a previous handshake.
func (c *Client) LoginWithToken(ctx context.Context, channelUID, channelToken string, region Region, sess *Session) (*Session, error) {
	if region == "" {
		region = c.region
	}
	if sess == nil {
		sess = NewSession()
	}

	uid, u8Token, err := c.GetU8Token(ctx, channelUID, channelToken, region)
	if err != nil {
		return nil, err
	}
	sess.UID = uid

	secret, err := c.GetSecret(ctx, uid, u8Token, region)
	if err != nil {
		return nil, err
	}
	sess.Secret = secret

	c.emit(Event{Kind: EventLoginOK, Step: "login", Region: region, Message: "logged in with UID " + uid})
	return sess, nil
}

// LoginAsGuest creates a fresh guest account at the passport gateway and logs
// it in. The returned channel credentials can be persisted and replayed
// through LoginWithToken.
func (c *Client) LoginAsGuest(ctx context.Context, region Region, sess *Session) (channelUID, channelToken string, _ *Session, err error) {
	if region == "" {
		region = c.region
	}
	host, err := passportHost(region)
	if err != nil {
		return "", "", nil, err
	}

	data, err := c.Request(ctx, Domain(host), "user/create", &RequestArgs{
		Body: guestCreateRequest{DeviceID: c.DeviceIDs()[0]},
	}, region)
	if err != nil {
		return "", "", nil, err
	}

	var resp guestCreateResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return "", "", nil, fmt.Errorf("parse guest create response: %w", err)
	}
	if resp.Result != 0 || resp.UID == "" {
		err := fmt.Errorf("guest create rejected: result %d", resp.Result)
		c.emitErr("loginAsGuest", region, "guest account creation failed", err)
		return "", "", nil, err
	}
	c.emitInfo("loginAsGuest", region, "created guest account "+resp.UID)

	sess, err = c.LoginWithToken(ctx, resp.UID, resp.Token, region, sess)
	if err != nil {
		return "", "", nil, err
	}
	return resp.UID, resp.Token, sess, nil
}
