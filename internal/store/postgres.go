package store

import (
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/MdShahnawaz474/Paytm-project/configs"
	"github.com/MdShahnawaz474/Paytm-project/internal/logger"
	"github.com/MdShahnawaz474/Paytm-project/internal/models"
)

var DB *gorm.DB

func NewDB() {
	dsn := configs.AppConfig.DB.DSN
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: false,
	}), &gorm.Config{})
	if err != nil {
		logger.Log.Fatal("failed to connect to database", zap.Error(err))
	}
	DB = db
	logger.Log.Info("connected to the database")
}

func DBMigrate() {
	DB.AutoMigrate(&models.User{}, &models.Balance{}, &models.P2PTransfer{}, &models.OnRampDeposit{})
	logger.Log.Info("migrations loaded")
}
