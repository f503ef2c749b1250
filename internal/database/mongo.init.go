package database

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/oacc1974/Golmarcadmion/internal/global"
	"github.com/oacc1974/Golmarcadmion/internal/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureDatabaseAndCollections creates every collection named in global.MongoDB_ColNames
// that does not exist yet. The database itself is created implicitly by the first collection.
func EnsureDatabaseAndCollections(client *mongo.Client, dbName string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	log := logger.GetAppLogger()

	dbList, err := client.ListDatabaseNames(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("failed to list databases: %w", err)
	}
	if !contains(dbList, dbName) {
		log.Infof("Database %s does not exist, it will be created with its collections", dbName)
	}

	db := client.Database(dbName)
	collList, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("failed to list collections: %w", err)
	}

	for _, name := range CollectionNames() {
		if contains(collList, name) {
			continue
		}
		log.Infof("Collection %s does not exist, creating", name)
		if err := db.CreateCollection(ctx, name); err != nil {
			return fmt.Errorf("failed to create collection %s: %w", name, err)
		}
	}

	log.Infof("Database and collections are ensured in database: %s", dbName)
	return nil
}

// CollectionNames returns the values of global.MongoDB_ColNames.
func CollectionNames() []string {
	v := reflect.ValueOf(global.MongoDB_ColNames)
	names := make([]string, 0, v.NumField())
	for i := 0; i < v.NumField(); i++ {
		names = append(names, v.Field(i).String())
	}
	return names
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// indexSpec is one index derived from the `index` struct tags of a model.
type indexSpec struct {
	Name   string
	Keys   bson.D
	Unique bool
	Sparse bool
	Text   bool
	TTL    *int32
}

func (s indexSpec) options() *options.IndexOptions {
	opts := options.Index().SetName(s.Name)
	if s.Unique {
		opts.SetUnique(true)
	}
	if s.Sparse {
		opts.SetSparse(true)
	}
	if s.TTL != nil {
		opts.SetExpireAfterSeconds(*s.TTL)
	}
	return opts
}

// parseOrder reads the sort order (1 or -1) from a tag.
func parseOrder(tag string) int {
	if strings.Contains(tag, "order:-1") || strings.Contains(tag, "single:-1") {
		return -1
	}
	return 1
}

// parseIndexTag splits `a,b:c;d` into one map per ';' separated group.
func parseIndexTag(tag string) []map[string]string {
	var result []map[string]string
	for _, part := range strings.Split(tag, ";") {
		entry := map[string]string{}
		for _, sub := range strings.Split(part, ",") {
			kv := strings.SplitN(sub, ":", 2)
			if len(kv) == 2 {
				entry[kv[0]] = kv[1]
			} else {
				entry[kv[0]] = ""
			}
		}
		result = append(result, entry)
	}
	return result
}

// bsonFieldName returns the document key of a struct field, ignoring bson options like omitempty.
func bsonFieldName(field reflect.StructField) string {
	name := strings.Split(field.Tag.Get("bson"), ",")[0]
	if name == "-" {
		return ""
	}
	return name
}

// indexSpecs reads the `index` tags of model. Supported options:
//
//	unique, unique,sparse, single:1, single:-1, text, ttl:<seconds>, compound:<name>[,order:-1]
//
// A compound group whose name contains "_unique" is created unique.
func indexSpecs(model interface{}) ([]indexSpec, error) {
	modelType := reflect.TypeOf(model)
	if modelType.Kind() == reflect.Ptr {
		modelType = modelType.Elem()
	}

	var specs []indexSpec
	compound := map[string]*indexSpec{}
	var compoundOrder []string

	for i := 0; i < modelType.NumField(); i++ {
		field := modelType.Field(i)
		tag, ok := field.Tag.Lookup("index")
		if !ok {
			continue
		}
		key := bsonFieldName(field)
		if key == "" {
			continue
		}

		for _, cfg := range parseIndexTag(tag) {
			if _, ok := cfg["text"]; ok {
				specs = append(specs, indexSpec{Name: key + "_text", Keys: bson.D{{Key: key, Value: "text"}}, Text: true})
			}
			if _, ok := cfg["single"]; ok {
				specs = append(specs, indexSpec{Name: key + "_single", Keys: bson.D{{Key: key, Value: parseOrder(tag)}}})
			}
			if _, ok := cfg["unique"]; ok {
				_, sparse := cfg["sparse"]
				specs = append(specs, indexSpec{Name: key + "_unique", Keys: bson.D{{Key: key, Value: 1}}, Unique: true, Sparse: sparse})
			}
			if raw, ok := cfg["ttl"]; ok {
				ttl, err := strconv.Atoi(raw)
				if err != nil {
					return nil, fmt.Errorf("invalid ttl %q on %s: %w", raw, key, err)
				}
				secs := int32(ttl)
				specs = append(specs, indexSpec{Name: key + "_ttl", Keys: bson.D{{Key: key, Value: 1}}, TTL: &secs})
			}
			if group, ok := cfg["compound"]; ok {
				spec, exists := compound[group]
				if !exists {
					spec = &indexSpec{Name: group, Unique: strings.Contains(group, "_unique")}
					compound[group] = spec
					compoundOrder = append(compoundOrder, group)
				}
				order := 1
				if cfg["order"] == "-1" {
					order = -1
				}
				spec.Keys = append(spec.Keys, bson.E{Key: key, Value: order})
				if _, sparse := cfg["sparse"]; sparse {
					spec.Sparse = true
				}
			}
		}
	}

	sort.Strings(compoundOrder)
	for _, group := range compoundOrder {
		specs = append(specs, *compound[group])
	}
	return specs, nil
}

func compareIndex(existing bson.M, spec indexSpec) bool {
	existingKeys, ok := existing["key"].(bson.M)
	if !ok || len(existingKeys) != len(spec.Keys) {
		return false
	}
	for _, k := range spec.Keys {
		ev, exists := existingKeys[k.Key]
		if !exists {
			return false
		}
		want, isInt := k.Value.(int)
		if !isInt {
			if ev != k.Value {
				return false
			}
			continue
		}
		switch v := ev.(type) {
		case int32:
			if int(v) != want {
				return false
			}
		case int64:
			if int(v) != want {
				return false
			}
		case float64:
			if int(v) != want {
				return false
			}
		default:
			return false
		}
	}

	unique, _ := existing["unique"].(bool)
	if unique != spec.Unique {
		return false
	}
	sparse, _ := existing["sparse"].(bool)
	if sparse != spec.Sparse {
		return false
	}
	if spec.TTL != nil {
		ttl, ok := existing["expireAfterSeconds"].(int32)
		if !ok || ttl != *spec.TTL {
			return false
		}
	}
	return true
}

// checkAndReplaceIndex leaves a matching index alone, otherwise drops and recreates it.
func checkAndReplaceIndex(ctx context.Context, collection *mongo.Collection, existingIndexes map[string]bson.M, spec indexSpec) error {
	log := logger.GetAppLogger().WithField("collection", collection.Name())

	if existing, exists := existingIndexes[spec.Name]; exists {
		if compareIndex(existing, spec) {
			log.Debugf("Index %s is up to date", spec.Name)
			return nil
		}
		if _, err := collection.Indexes().DropOne(ctx, spec.Name); err != nil {
			return fmt.Errorf("cannot drop index %s: %w", spec.Name, err)
		}
		log.Infof("Dropped outdated index %s", spec.Name)
	}

	if _, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{Keys: spec.Keys, Options: spec.options()}); err != nil {
		return fmt.Errorf("cannot create index %s: %w", spec.Name, err)
	}
	log.Infof("Created index %s", spec.Name)
	return nil
}

// CreateIndexes brings the indexes of collection in line with the `index` tags of model.
// Unique `<field>_unique` indexes no longer declared on the model are dropped.
func CreateIndexes(ctx context.Context, collection *mongo.Collection, model interface{}) error {
	specs, err := indexSpecs(model)
	if err != nil {
		return err
	}

	cursor, err := collection.Indexes().List(ctx)
	if err != nil {
		return fmt.Errorf("cannot list indexes: %w", err)
	}
	defer cursor.Close(ctx)

	existingIndexes := map[string]bson.M{}
	for cursor.Next(ctx) {
		var info bson.M
		if err := cursor.Decode(&info); err != nil {
			return fmt.Errorf("cannot decode index info: %w", err)
		}
		if name, ok := info["name"].(string); ok {
			existingIndexes[name] = info
		}
	}

	declared := map[string]bool{}
	for _, spec := range specs {
		declared[spec.Name] = true
		if err := checkAndReplaceIndex(ctx, collection, existingIndexes, spec); err != nil {
			return err
		}
	}

	for name, info := range existingIndexes {
		if !strings.HasSuffix(name, "_unique") || declared[name] {
			continue
		}
		if unique, ok := info["unique"].(bool); ok && unique {
			if _, err := collection.Indexes().DropOne(ctx, name); err != nil {
				logger.GetAppLogger().WithError(err).Warnf("Cannot drop undeclared unique index %s", name)
				continue
			}
			logger.GetAppLogger().Infof("Dropped undeclared unique index %s", name)
		}
	}
	return nil
}
