package sdk

import "context"

// GetUserInfo gets the current user's info
func (c *Client) GetUserInfo(ctx context.Context) (*UserInfo, error) {
	var result UserInfo
	if err := c.get(ctx, "/user/info", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetUserProfile gets a user's public profile with rating summary
func (c *Client) GetUserProfile(ctx context.Context, userId string) (*UserProfile, error) {
	var result UserProfile
	if err := c.get(ctx, "/user/profile/"+userId, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// UpdateUserInfo updates the current user's info
func (c *Client) UpdateUserInfo(ctx context.Context, req *UpdateUserRequest) (*UserInfo, error) {
	var result UserInfo
	if err := c.put(ctx, "/user/update", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
