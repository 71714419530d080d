package service

import (
	"errors"

	"github.com/clothely/clothely-backend/internal/app/model"
	"github.com/clothely/clothely-backend/internal/app/repository"
	"github.com/clothely/clothely-backend/pkg/logger"
	"github.com/clothely/clothely-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrOptionNotFound      = errors.New("variant option not found")
	ErrOptionInUse         = errors.New("variant option is referenced by variants")
	ErrGlobalValueNotFound = errors.New("global value not found")
)

type OptionInput struct {
	Name string
	Type model.OptionType
}

type GlobalValueInput struct {
	Value     string
	ColorHex  string
	SortOrder int
}

// AttributeService manages the variant option catalog used by the
// admin product form and the storefront filter sidebar.
type AttributeService interface {
	ListOptions() ([]model.VariantOption, error)
	GetOption(id uint) (*model.VariantOption, error)
	CreateOption(input OptionInput) (*model.VariantOption, error)
	UpdateOption(id uint, input OptionInput) (*model.VariantOption, error)
	DeleteOption(id uint) error

	AddGlobalValue(optionID uint, input GlobalValueInput) (*model.GlobalValue, error)
	UpdateGlobalValue(optionID, valueID uint, input GlobalValueInput) (*model.GlobalValue, error)
	DeleteGlobalValue(optionID, valueID uint) error
}

type attributeService struct {
	attributes repository.AttributeRepository
}

func NewAttributeService(attributes repository.AttributeRepository) AttributeService {
	return &attributeService{attributes: attributes}
}

func (s *attributeService) ListOptions() ([]model.VariantOption, error) {
	return s.attributes.FindOptions()
}

func (s *attributeService) GetOption(id uint) (*model.VariantOption, error) {
	option, err := s.attributes.FindOptionByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOptionNotFound
		}
		return nil, err
	}
	return option, nil
}

func (s *attributeService) CreateOption(input OptionInput) (*model.VariantOption, error) {
	optionType := input.Type
	if optionType == "" {
		optionType = model.OptionTypeText
	}

	option := &model.VariantOption{
		Name: input.Name,
		Slug: util.Slugify(input.Name),
		Type: optionType,
	}
	if err := s.attributes.CreateOption(option); err != nil {
		return nil, err
	}

	logger.Info("Variant option created", map[string]interface{}{
		"option_id": option.ID,
		"slug":      option.Slug,
	})
	return option, nil
}

func (s *attributeService) UpdateOption(id uint, input OptionInput) (*model.VariantOption, error) {
	option, err := s.GetOption(id)
	if err != nil {
		return nil, err
	}

	if input.Name != "" {
		option.Name = input.Name
		option.Slug = util.Slugify(input.Name)
	}
	if input.Type != "" {
		option.Type = input.Type
	}
	if err := s.attributes.UpdateOption(option); err != nil {
		return nil, err
	}
	return option, nil
}

// DeleteOption refuses to delete an option any variant still uses.
// Deleting would orphan the variant signatures built on it.
func (s *attributeService) DeleteOption(id uint) error {
	if _, err := s.GetOption(id); err != nil {
		return err
	}

	usage, err := s.attributes.CountOptionUsage(id)
	if err != nil {
		return err
	}
	if usage > 0 {
		logger.Warn("Refusing to delete variant option in use", map[string]interface{}{
			"option_id": id,
			"usage":     usage,
		})
		return ErrOptionInUse
	}
	return s.attributes.DeleteOption(id)
}

func (s *attributeService) AddGlobalValue(optionID uint, input GlobalValueInput) (*model.GlobalValue, error) {
	if _, err := s.GetOption(optionID); err != nil {
		return nil, err
	}

	value := &model.GlobalValue{
		OptionID:  optionID,
		Value:     input.Value,
		ColorHex:  input.ColorHex,
		SortOrder: input.SortOrder,
	}
	if err := s.attributes.CreateGlobalValue(value); err != nil {
		return nil, err
	}
	return value, nil
}

func (s *attributeService) UpdateGlobalValue(optionID, valueID uint, input GlobalValueInput) (*model.GlobalValue, error) {
	value, err := s.ownedValue(optionID, valueID)
	if err != nil {
		return nil, err
	}

	if input.Value != "" {
		value.Value = input.Value
	}
	value.ColorHex = input.ColorHex
	value.SortOrder = input.SortOrder
	if err := s.attributes.UpdateGlobalValue(value); err != nil {
		return nil, err
	}
	return value, nil
}

func (s *attributeService) DeleteGlobalValue(optionID, valueID uint) error {
	value, err := s.ownedValue(optionID, valueID)
	if err != nil {
		return err
	}
	return s.attributes.DeleteGlobalValue(value.ID)
}

func (s *attributeService) ownedValue(optionID, valueID uint) (*model.GlobalValue, error) {
	option, err := s.GetOption(optionID)
	if err != nil {
		return nil, err
	}
	for i := range option.GlobalValues {
		if option.GlobalValues[i].ID == valueID {
			return &option.GlobalValues[i], nil
		}
	}
	return nil, ErrGlobalValueNotFound
}
