package generator

import (
	"strings"
	"testing"

	"github.com/entidraw/entidraw/pkg/document"
)

func TestSpring_CompositionAnnotations(t *testing.T) {
	bundle, err := Generate(TargetSpring, houseDoc(t), Options{})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	casa := artifactByPath(t, bundle, "src/main/java/com/entidraw/app/model/Casa.java")
	if !strings.Contains(casa, `@OneToMany(mappedBy = "casa", cascade = CascadeType.ALL, orphanRemoval = true)`) {
		t.Errorf("composition collection annotation wrong:\n%s", casa)
	}
	if !strings.Contains(casa, "private List<Habitacion> habitaciones;") {
		t.Error("collection field missing on the whole")
	}
	if !strings.Contains(casa, "import java.util.List;") {
		t.Error("List import missing")
	}

	habitacion := artifactByPath(t, bundle, "src/main/java/com/entidraw/app/model/Habitacion.java")
	if !strings.Contains(habitacion, "@ManyToOne") {
		t.Error("back-reference annotation missing")
	}
	if !strings.Contains(habitacion, `@JoinColumn(name = "casa_id")`) {
		t.Error("join column does not match the SQL schema")
	}
	if !strings.Contains(habitacion, "private Casa casa;") {
		t.Error("back-reference field missing on the part")
	}
}

func TestSpring_FreeFormNamesYieldValidIdentifiers(t *testing.T) {
	doc := newGenDoc(t)
	order := doc.InsertNamedEntity(0, 0, "Purchase Order", defaultAttrs())
	item := doc.InsertNamedEntity(300, 0, "Line Item", defaultAttrs())
	if _, ok := doc.InsertRelation(order, item, document.Composition, document.One, document.Many, document.TargetSide); !ok {
		t.Fatal("relation rejected")
	}

	bundle, err := Generate(TargetSpring, doc, Options{})
	if err != nil {
		t.Fatal(err)
	}

	orderModel := artifactByPath(t, bundle, "src/main/java/com/entidraw/app/model/PurchaseOrder.java")
	if !strings.Contains(orderModel, "private List<LineItem> lineItems;") {
		t.Errorf("collection field not sanitized:\n%s", orderModel)
	}
	if !strings.Contains(orderModel, `@OneToMany(mappedBy = "purchaseOrder"`) {
		t.Error("mappedBy not sanitized")
	}

	itemModel := artifactByPath(t, bundle, "src/main/java/com/entidraw/app/model/LineItem.java")
	if !strings.Contains(itemModel, "private PurchaseOrder purchaseOrder;") {
		t.Errorf("back-reference field not sanitized:\n%s", itemModel)
	}
	if !strings.Contains(itemModel, `@JoinColumn(name = "purchase_order_id")`) {
		t.Error("join column does not match the SQL schema")
	}
}

func TestSpring_AggregationLimitsCascade(t *testing.T) {
	doc := newGenDoc(t)
	dept := doc.InsertNamedEntity(0, 0, "Department", defaultAttrs())
	emp := doc.InsertNamedEntity(300, 0, "Worker", defaultAttrs())
	doc.InsertRelation(dept, emp, document.Aggregation, document.One, document.Many, document.TargetSide)

	bundle, err := Generate(TargetSpring, doc, Options{})
	if err != nil {
		t.Fatal(err)
	}
	model := artifactByPath(t, bundle, "src/main/java/com/entidraw/app/model/Department.java")
	if !strings.Contains(model, `@OneToMany(mappedBy = "department", cascade = {CascadeType.PERSIST, CascadeType.MERGE})`) {
		t.Errorf("aggregation cascade wrong:\n%s", model)
	}
	if strings.Contains(model, "orphanRemoval") {
		t.Error("aggregation must not remove orphans")
	}
}

func TestSpring_GeneralizationUsesJoinedInheritance(t *testing.T) {
	bundle, err := Generate(TargetSpring, staffDoc(t), Options{})
	if err != nil {
		t.Fatal(err)
	}

	persona := artifactByPath(t, bundle, "src/main/java/com/entidraw/app/model/Persona.java")
	if !strings.Contains(persona, "@Inheritance(strategy = InheritanceType.JOINED)") {
		t.Errorf("parent lacks joined inheritance:\n%s", persona)
	}
	if !strings.Contains(persona, "@Id") {
		t.Error("parent lacks its identity field")
	}

	empleado := artifactByPath(t, bundle, "src/main/java/com/entidraw/app/model/Empleado.java")
	if !strings.Contains(empleado, "public class Empleado extends Persona {") {
		t.Errorf("child does not extend the parent:\n%s", empleado)
	}
	if !strings.Contains(empleado, "@PrimaryKeyJoinColumn") {
		t.Error("child lacks the shared-pk join column")
	}
	// The child's identity lives on the parent; no second @Id.
	if strings.Contains(empleado, "@Id") {
		t.Error("child declares a duplicate identity field")
	}
	if !strings.Contains(empleado, "private Double salario;") {
		t.Error("child's own attribute missing")
	}
}

func TestSpring_ManyToManyMapsJunction(t *testing.T) {
	doc := newGenDoc(t)
	student := doc.InsertNamedEntity(0, 0, "Student", defaultAttrs())
	course := doc.InsertNamedEntity(300, 0, "Course", defaultAttrs())
	doc.InsertRelation(student, course, document.Association, document.Many, document.Many, document.TargetSide)

	bundle, err := Generate(TargetSpring, doc, Options{})
	if err != nil {
		t.Fatal(err)
	}
	studentModel := artifactByPath(t, bundle, "src/main/java/com/entidraw/app/model/Student.java")
	if !strings.Contains(studentModel, `@JoinTable(name = "courses_students")`) {
		t.Errorf("owning side join table wrong:\n%s", studentModel)
	}
	courseModel := artifactByPath(t, bundle, "src/main/java/com/entidraw/app/model/Course.java")
	if !strings.Contains(courseModel, `@ManyToMany(mappedBy = "courses")`) {
		t.Errorf("inverse side mapping wrong:\n%s", courseModel)
	}
}

func TestSpring_OneToOneOwningSide(t *testing.T) {
	doc := newGenDoc(t)
	user := doc.InsertNamedEntity(0, 0, "User", defaultAttrs())
	profile := doc.InsertNamedEntity(300, 0, "Profile", defaultAttrs())
	doc.InsertRelation(user, profile, document.Association, document.One, document.One, document.TargetSide)

	bundle, err := Generate(TargetSpring, doc, Options{})
	if err != nil {
		t.Fatal(err)
	}
	// The target holds the FK by convention, so its field is the owner.
	profileModel := artifactByPath(t, bundle, "src/main/java/com/entidraw/app/model/Profile.java")
	if !strings.Contains(profileModel, `@JoinColumn(name = "user_id")`) {
		t.Errorf("owning side join column wrong:\n%s", profileModel)
	}
	userModel := artifactByPath(t, bundle, "src/main/java/com/entidraw/app/model/User.java")
	if !strings.Contains(userModel, `@OneToOne(mappedBy = "user")`) {
		t.Errorf("inverse side mapping wrong:\n%s", userModel)
	}
}

func TestSpring_RepositoryAndController(t *testing.T) {
	bundle, err := Generate(TargetSpring, houseDoc(t), Options{BasePackage: "io.example.shop"})
	if err != nil {
		t.Fatal(err)
	}

	repo := artifactByPath(t, bundle, "src/main/java/io/example/shop/repository/CasaRepository.java")
	if !strings.Contains(repo, "package io.example.shop.repository;") {
		t.Error("repository package wrong")
	}
	if !strings.Contains(repo, "public interface CasaRepository extends JpaRepository<Casa, Long> {") {
		t.Errorf("repository signature wrong:\n%s", repo)
	}

	controller := artifactByPath(t, bundle, "src/main/java/io/example/shop/controller/CasaController.java")
	if !strings.Contains(controller, `@RequestMapping("/api/casas")`) {
		t.Error("resource path does not match the resolver")
	}
	for _, want := range []string{"@GetMapping", "@PostMapping", "@PutMapping", "@DeleteMapping"} {
		if !strings.Contains(controller, want) {
			t.Errorf("controller missing %s", want)
		}
	}
}

func TestSpring_UpdateTargetsThePathId(t *testing.T) {
	bundle, err := Generate(TargetSpring, houseDoc(t), Options{})
	if err != nil {
		t.Fatal(err)
	}

	controller := artifactByPath(t, bundle, "src/main/java/com/entidraw/app/controller/CasaController.java")
	if !strings.Contains(controller, "if (!repository.existsById(id)) {") {
		t.Errorf("update does not check existence:\n%s", controller)
	}
	// The path id wins over whatever the request body carries.
	if !strings.Contains(controller, "casa.setId(id);") {
		t.Error("update does not pin the entity to the path id")
	}
	if !strings.Contains(controller, "return ResponseEntity.ok(repository.save(casa));") {
		t.Error("update does not save the bound entity")
	}

	model := artifactByPath(t, bundle, "src/main/java/com/entidraw/app/model/Casa.java")
	if !strings.Contains(model, "public void setId(Long id) {") {
		t.Errorf("model lacks the identity setter:\n%s", model)
	}
	if !strings.Contains(model, "public Long getId() {") {
		t.Error("model lacks the identity getter")
	}
}

func TestSpring_PomCarriesStarters(t *testing.T) {
	bundle, err := Generate(TargetSpring, houseDoc(t), Options{AppName: "houses", BasePackage: "io.example.shop"})
	if err != nil {
		t.Fatal(err)
	}
	pom := artifactByPath(t, bundle, "pom.xml")
	if !strings.Contains(pom, "<groupId>io.example</groupId>") {
		t.Errorf("group id wrong:\n%s", pom)
	}
	if !strings.Contains(pom, "<artifactId>houses</artifactId>") {
		t.Error("artifact id does not use the app name")
	}
	for _, dep := range []string{"spring-boot-starter-web", "spring-boot-starter-data-jpa", "postgresql"} {
		if !strings.Contains(pom, dep) {
			t.Errorf("pom missing dependency %s", dep)
		}
	}
}
