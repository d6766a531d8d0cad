package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"vibin_discovery/models"
	"vibin_discovery/utils"
)

// TableNames lets deployments rename the DynamoDB tables.
type TableNames struct {
	Profiles     string
	Interactions string
	Matches      string
	Preferences  string
}

// DefaultTableNames returns the table names from the models package.
func DefaultTableNames() TableNames {
	return TableNames{
		Profiles:     models.UserProfilesTable,
		Interactions: models.InteractionsTable,
		Matches:      models.MatchesTable,
		Preferences:  models.PreferencesTable,
	}
}

// DynamoStore implements Store on DynamoDB. Interactions, seen markers and the
// last swipe of a user share the interactions table under the "USER#id" partition.
type DynamoStore struct {
	Dynamo *DynamoService
	Tables TableNames
}

func userKey(userID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{"userId": utils.StringAttr(userID)}
}

func (s *DynamoStore) GetProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	var profile models.UserProfile
	if err := s.Dynamo.GetItem(ctx, s.Tables.Profiles, userKey(userID), &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (s *DynamoStore) PutProfile(ctx context.Context, profile models.UserProfile) error {
	return s.Dynamo.PutItem(ctx, s.Tables.Profiles, profile)
}

func (s *DynamoStore) ListProfiles(ctx context.Context) ([]models.UserProfile, error) {
	items, err := s.Dynamo.ScanAll(ctx, s.Tables.Profiles, "", nil, nil)
	if err != nil {
		return nil, err
	}
	var profiles []models.UserProfile
	if err := attributevalue.UnmarshalListOfMaps(items, &profiles); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profiles: %w", err)
	}
	return profiles, nil
}

func (s *DynamoStore) GetPreferences(ctx context.Context, userID string) (*models.Preferences, error) {
	var prefs models.Preferences
	if err := s.Dynamo.GetItem(ctx, s.Tables.Preferences, userKey(userID), &prefs); err != nil {
		return nil, err
	}
	return &prefs, nil
}

func (s *DynamoStore) PutPreferences(ctx context.Context, prefs models.Preferences) error {
	return s.Dynamo.PutItem(ctx, s.Tables.Preferences, prefs)
}

func (s *DynamoStore) GetInteraction(ctx context.Context, senderID, receiverID string) (*models.Interaction, error) {
	var interaction models.Interaction
	key := utils.CompositeKey(utils.UserPK(senderID), utils.InteractionSK(receiverID))
	if err := s.Dynamo.GetItem(ctx, s.Tables.Interactions, key, &interaction); err != nil {
		return nil, err
	}
	return &interaction, nil
}

func (s *DynamoStore) PutInteraction(ctx context.Context, interaction models.Interaction) error {
	interaction.PK = utils.UserPK(interaction.SenderID)
	interaction.SK = utils.InteractionSK(interaction.ReceiverID)
	return s.Dynamo.PutItem(ctx, s.Tables.Interactions, interaction)
}

func (s *DynamoStore) DeleteInteraction(ctx context.Context, senderID, receiverID string) error {
	key := utils.CompositeKey(utils.UserPK(senderID), utils.InteractionSK(receiverID))
	return s.Dynamo.DeleteItem(ctx, s.Tables.Interactions, key)
}

func (s *DynamoStore) queryPrefix(ctx context.Context, userID, prefix string) ([]map[string]types.AttributeValue, error) {
	return s.Dynamo.QueryAll(ctx, s.Tables.Interactions,
		"PK = :pk AND begins_with(SK, :prefix)",
		map[string]types.AttributeValue{
			":pk":     utils.StringAttr(utils.UserPK(userID)),
			":prefix": utils.StringAttr(prefix),
		}, nil)
}

func (s *DynamoStore) ListInteractions(ctx context.Context, senderID string) ([]models.Interaction, error) {
	items, err := s.queryPrefix(ctx, senderID, models.InteractionKeyPrefix)
	if err != nil {
		return nil, err
	}
	var interactions []models.Interaction
	if err := attributevalue.UnmarshalListOfMaps(items, &interactions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal interactions: %w", err)
	}
	return interactions, nil
}

func (s *DynamoStore) ListIncomingSuperLikes(ctx context.Context, receiverID string) ([]string, error) {
	items, err := s.Dynamo.QueryIndexAll(ctx, s.Tables.Interactions, models.ReceiverIndex,
		"receiverId = :receiver",
		"interactionType = :type AND #status = :pending",
		map[string]types.AttributeValue{
			":receiver": utils.StringAttr(receiverID),
			":type":     utils.StringAttr(models.InteractionTypeSuperLike),
			":pending":  utils.StringAttr(models.StatusPending),
		},
		map[string]string{"#status": "status"})
	if err != nil {
		return nil, err
	}
	senders := make([]string, 0, len(items))
	for _, item := range items {
		if id := utils.ExtractString(item, "senderId"); id != "" {
			senders = append(senders, id)
		}
	}
	return senders, nil
}

// CreateMatch writes the match and both matched interactions in one transaction,
// conditioned on both interactions still being pending.
func (s *DynamoStore) CreateMatch(ctx context.Context, match models.Match, mine, theirs models.Interaction) error {
	pending := func(i models.Interaction) ConditionalPut {
		i.PK = utils.UserPK(i.SenderID)
		i.SK = utils.InteractionSK(i.ReceiverID)
		return ConditionalPut{
			Table:     s.Tables.Interactions,
			Item:      i,
			Condition: "#status = :pending",
			Names:     map[string]string{"#status": "status"},
			Values:    map[string]types.AttributeValue{":pending": utils.StringAttr(models.StatusPending)},
		}
	}
	return s.Dynamo.TransactPut(ctx,
		ConditionalPut{Table: s.Tables.Matches, Item: match, Condition: "attribute_not_exists(matchId)"},
		pending(mine),
		pending(theirs),
	)
}

func (s *DynamoStore) PutMatch(ctx context.Context, match models.Match) error {
	return s.Dynamo.PutItem(ctx, s.Tables.Matches, match)
}

func (s *DynamoStore) ListMatches(ctx context.Context, userID string) ([]models.Match, error) {
	items, err := s.Dynamo.ScanAll(ctx, s.Tables.Matches,
		"contains(#users, :user)",
		map[string]types.AttributeValue{":user": utils.StringAttr(userID)},
		map[string]string{"#users": "users"})
	if err != nil {
		return nil, err
	}
	var matches []models.Match
	if err := attributevalue.UnmarshalListOfMaps(items, &matches); err != nil {
		return nil, fmt.Errorf("failed to unmarshal matches: %w", err)
	}
	return matches, nil
}

func (s *DynamoStore) MarkSeen(ctx context.Context, viewerID, seenID string, at time.Time) error {
	return s.Dynamo.PutItem(ctx, s.Tables.Interactions, models.SeenEntry{
		PK:     utils.UserPK(viewerID),
		SK:     utils.SeenSK(seenID),
		SeenID: seenID,
		SeenAt: at.UTC().Format(time.RFC3339),
	})
}

func (s *DynamoStore) ListSeen(ctx context.Context, viewerID string) ([]string, error) {
	items, err := s.queryPrefix(ctx, viewerID, models.SeenKeyPrefix)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(items))
	for _, item := range items {
		if id := utils.ExtractString(item, "seenId"); id != "" {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (s *DynamoStore) GetLastSwipe(ctx context.Context, userID string) (*models.LastSwipe, error) {
	var last models.LastSwipe
	key := utils.CompositeKey(utils.UserPK(userID), models.LastSwipeKey)
	if err := s.Dynamo.GetItem(ctx, s.Tables.Interactions, key, &last); err != nil {
		return nil, err
	}
	return &last, nil
}

func (s *DynamoStore) PutLastSwipe(ctx context.Context, swipe models.LastSwipe) error {
	if swipe.SenderID == "" {
		return errors.New("last swipe requires a sender")
	}
	swipe.PK = utils.UserPK(swipe.SenderID)
	swipe.SK = models.LastSwipeKey
	return s.Dynamo.PutItem(ctx, s.Tables.Interactions, swipe)
}

func (s *DynamoStore) DeleteLastSwipe(ctx context.Context, userID string) error {
	key := utils.CompositeKey(utils.UserPK(userID), models.LastSwipeKey)
	return s.Dynamo.DeleteItem(ctx, s.Tables.Interactions, key)
}
